// Package main provides the CLI entrypoint for sanity-yaml.
//
// sanity-yaml is a YAML-driven schema generator that:
//   - Parses compact YAML field declarations
//   - Resolves them into Sanity field definitions
//   - Derives matching TypeScript types
//   - Renders both through built-in or user templates
package main

import (
	"os"

	"sanity-yaml/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
