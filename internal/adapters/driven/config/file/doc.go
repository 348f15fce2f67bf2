// Package file provides file-based configuration storage.
//
// Configuration lives in ~/.lifeops/config.toml by default:
//
//	[storage]
//	backend = "sqlite"
//
//	[items]
//	categories = ["personal", "work", "health"]
//	default_category = "personal"
//
//	[engine]
//	commit_policy = "majority"
package file
