// Package version carries the build metadata stamped into the keyfang
// binary at link time.
package version

// Version is the semantic version of the binary, set via -ldflags.
var Version = "dev"

// Commit is the Git commit the binary was built from, set via -ldflags.
var Commit = "none"

// Date is the build timestamp, set via -ldflags.
var Date = "unknown"
