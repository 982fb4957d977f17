package main

import "github.com/tradewars/resolver/cmd"

func main() {
	cmd.Execute()
}
