package main

import "rpgscribe/internal/cli"

func main() {
	cli.Execute()
}
