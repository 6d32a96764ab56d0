package main

import "github.com/panyam/svggraph/cmd/svggraph/commands"

func main() {
	commands.Execute()
}
