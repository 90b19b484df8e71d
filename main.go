package main

import "github.com/barfgo/reil/cmd"

func main() {
	cmd.Execute()
}
