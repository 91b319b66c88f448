package main

import "github.com/Varietyz/phigo-transpiler/internal/cli"

func main() {
	cli.Execute()
}
