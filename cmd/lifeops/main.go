// Command lifeops manages a personal item collection with atomic batch
// mutations, from the terminal or as an MCP server.
package main

import "github.com/custodia-labs/lifeops/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
