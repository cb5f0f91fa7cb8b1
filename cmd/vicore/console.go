package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dshills/vicore/internal/logging"
)

// console shows editor messages on a writer, one per line.
type console struct {
	w   io.Writer
	log *logging.Logger
}

func newConsole(w io.Writer, log *logging.Logger) *console {
	return &console{w: w, log: log.WithComponent("console")}
}

func (c *console) Beep() { c.log.Debug("beep") }

func (c *console) Message(msg string) { fmt.Fprintln(c.w, msg) }

// readLines reads r to the end, one command per line.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
