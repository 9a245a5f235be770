// Package services implements the driving ports of the review pipeline:
// guideline ingestion, context retrieval and PR review orchestration.
// Services receive their dependencies by constructor injection.
package services
