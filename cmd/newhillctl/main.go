package main

import "newhill-spices/cmd/newhillctl/commands"

func main() {
	commands.Execute()
}
