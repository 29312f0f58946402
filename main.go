package main

import "github.com/Kariqs/shopfront-api/cmd"

func main() {
	cmd.Execute()
}
