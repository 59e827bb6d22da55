package main

import "github.com/tinyseq/sequencer/cmd/sequencer/cmd"

func main() {
	cmd.Execute()
}
