// Package genkore implements the core model of genproj: the [Project] that
// anchors all relative paths, the file [Categories] searched in a source tree,
// the [Lookup] that maps file basenames to the canonical paths discovered
// during a scan and the [Config] that drives it all. Diagnostics are reported
// through a [Trace] that is handed down to each operation.
//
// The script generator built on top of this is the [genproj] package.
//
// [genproj]: https://pkg.go.dev/git.fractalqb.de/fractalqb/genproj
package genkore
