// Package schemas holds the JSON Schemas that oracle responses and saved run records must satisfy.
package schemas

import "embed"

// Files contains every *.schema.json in this directory
//
//go:embed *.schema.json
var Files embed.FS
