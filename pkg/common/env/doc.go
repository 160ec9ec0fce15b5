// Package env provides environment variable handling utilities for tapctl:
// type-safe value retrieval and path resolution.
//
// # Retrieving Values
//
// Type-safe accessors for environment variables:
//
//	debug := env.GetBool("DEBUG", false)
//	port := env.GetInt("PORT", 8080)
//	timeout := env.GetDuration("TIMEOUT", 30*time.Second)
//	tags := env.GetString("BUILD_TAGS", "")
//
// # Files
//
// The package does not parse .env files: LoadFromFile and SaveToFile
// return nil without reading or writing anything.
package env
