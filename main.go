// Package main is the entry point for the srcpatch CLI.
package main

import "srcpatch.dev/pkg/srcpatch/cmd"

func main() {
	cmd.Execute()
}
