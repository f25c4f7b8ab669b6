package main

import "github.com/dotcommander/tscheck/cmd"

func main() {
	cmd.Execute()
}
