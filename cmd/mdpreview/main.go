package main

import "github.com/riverfjs/mdpreview-go/internal/cli"

func main() {
	cli.Execute()
}
