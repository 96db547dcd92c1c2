package main

import "github.com/pfrederiksen/matchday-index/internal/cli"

func main() {
	cli.Execute()
}
