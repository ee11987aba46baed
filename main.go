// Package main is the entry point for the mutok CLI.
package main

import "mutok.dev/pkg/mutok/cmd"

func main() {
	cmd.Execute()
}
