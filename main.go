package main

import "github.com/tracewire/tracewire/cmd"

func main() {
	cmd.Execute()
}
