package main

import "github.com/tracelab/taskprobe/cmd/taskprobe/cmd"

func main() {
	cmd.Execute()
}
