// Package domain contains the core business types for Kestrel.
// These types are pure data with no dependencies on adapters or
// external services.
package domain
