// Package main is the entry point for the conform CLI.
package main

import "conform.dev/pkg/conform/cmd"

func main() {
	cmd.Execute()
}
