// Package buildinfo exposes build metadata stamped in via -ldflags:
//
//	go build -ldflags "-X .../buildinfo.BuildVersion=1.2.3 \
//	                   -X .../buildinfo.BuildDate=2026-01-01 \
//	                   -X .../buildinfo.BuildCommit=abcdef"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	BuildVersion = "N/A"
	BuildDate    = "N/A"
	BuildCommit  = "N/A"
)

// PrintBuildData writes the build stamp in a fixed three-line format.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", BuildVersion)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", BuildCommit)
}
