package main

import "foldersearch/internal/cli"

func main() {
	cli.Execute()
}
