// Package runtimeembed provides the embedded client-side support
// sources the driver copies next to generated bridge output.
package runtimeembed

import (
	"embed"
	"io/fs"
)

//go:embed swift/*.swift
var swiftCoreFS embed.FS

// SwiftCoreFS exposes the embedded Swift support sources.
func SwiftCoreFS() fs.FS {
	return swiftCoreFS
}

// SwiftCore returns the FerryCore.swift source text.
func SwiftCore() string {
	data, err := swiftCoreFS.ReadFile("swift/FerryCore.swift")
	if err != nil {
		panic("runtimeembed: FerryCore.swift missing from embed: " + err.Error())
	}
	return string(data)
}
