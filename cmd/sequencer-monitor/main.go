package main

import "github.com/tinyseq/sequencer/cmd/sequencer-monitor/cmd"

func main() {
	cmd.Execute()
}
