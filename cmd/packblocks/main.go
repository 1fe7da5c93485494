// PackingBlocks packs rectangular blocks into a fixed-size container.
//
// Build:
//   go build -o packblocks ./cmd/packblocks
//
// Release builds inject version information:
//   go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/packblocks

package main

import (
	"os"

	"github.com/DenisPitsul/PackingBlocks/internal/cli"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	os.Exit(cli.Execute(cli.NewRootCommand(), os.Stderr))
}
