package main

import "github.com/pfrederiksen/docket-watch/internal/cli"

func main() {
	cli.Execute()
}
