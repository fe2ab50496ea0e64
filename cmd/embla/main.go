/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/embla/cmd/embla/cmd"
)

func main() {
	cmd.Execute()
}
