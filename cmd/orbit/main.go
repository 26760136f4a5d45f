package main

import "github.com/andrescamacho/orbit-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
