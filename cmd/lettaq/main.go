// Package main is the entry point for the lettaq CLI.
package main

import "github.com/letta-tools/lettaq/internal/cli"

func main() {
	cli.Execute()
}
