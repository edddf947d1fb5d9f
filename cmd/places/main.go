// Package main is the entry point for the places CLI.
package main

import "github.com/basecamp/places-cli/internal/cli"

func main() {
	cli.Execute()
}
