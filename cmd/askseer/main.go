package main

import "askseer-mcp/internal/cli"

func main() {
	cli.Execute()
}
