// Package main is the entry point for the gdshadow CLI.
package main

import "gdshadow.dev/pkg/gdshadow/cmd"

func main() {
	cmd.Execute()
}
