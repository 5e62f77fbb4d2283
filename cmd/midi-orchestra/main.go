package main

import "github.com/sidechain-audio/midi-orchestra/internal/cli"

func main() {
	cli.Execute()
}
