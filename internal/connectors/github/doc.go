// Package github implements the PR fetcher against the GitHub REST API.
//
// The connector wraps go-github with dual-strategy rate limiting:
// proactive token-bucket throttling plus reactive header tracking, so a
// review run never burns the caller's API quota dry.
//
// Authentication is a personal access token. Anonymous access works for
// public repositories at GitHub's reduced unauthenticated limits.
package github
