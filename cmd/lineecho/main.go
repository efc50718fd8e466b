// lineecho reads a single line of at most 15 bytes from stdin and writes it back to stdout without its trailing newline, followed by a newline.
// It exits 1 without output if nothing could be read.
package main

import (
	"context"
	"os"

	"github.com/meln5674/lineecho"
)

func main() {
	err := lineecho.
		NewEchoCmd(context.Background()).
		WithStreams(lineecho.ForwardAll).
		Run()
	os.Exit(lineecho.ExitCode(err))
}
