// Package main is the single-binary entrypoint for halo, a presence
// monitor that drives a USB status light from call and idle detection.
package main

import "github.com/halolight/halo/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
