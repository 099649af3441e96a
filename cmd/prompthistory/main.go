package main

import "github.com/junhoyeo/prompthistory/internal/cli"

func main() {
	cli.Execute()
}
