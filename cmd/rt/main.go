package main

import "github.com/LouisLau-art/simple-renpy-translator/internal/cli"

func main() {
	cli.Execute()
}
