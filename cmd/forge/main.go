package main

import "github.com/forge-vcs/forge/cli"

func main() {
	cli.Execute()
}
