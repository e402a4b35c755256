package main

import "github.com/agentic-research/packtree/cmd"

func main() {
	cmd.Execute()
}
