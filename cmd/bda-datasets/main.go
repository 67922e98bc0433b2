package main

import "github.com/pfrederiksen/bda-datasets/internal/cli"

func main() {
	cli.Execute()
}
