package main

import "github.com/quarry-labs/sitechat-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
