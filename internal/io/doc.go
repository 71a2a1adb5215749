// Package ioutils provides file system and image helpers.
//
// This package contains functions for:
//   - Atomic file replacement
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Cover art scaling and JPEG conversion
//
// # File Operations
//
//	// Replace a file without leaving a half-written copy behind
//	err := ioutils.WriteFileAtomic("prices_db.json", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("covers")
//
// # Cover Art
//
//	svc := ioutils.NewImageService()
//	jpeg, err := svc.Thumbnail(imageData, 500)
package ioutils
