package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openfga/asyncseq/pkg/sequence"
)

const (
	stdinName = "-"

	maxLineSize = 1024 * 1024
)

// lineIterator yields the lines of a reader without their line terminators.
type lineIterator struct {
	scanner *bufio.Scanner
	closer  io.Closer
	done    bool
}

var _ sequence.Iterator[string] = (*lineIterator)(nil)

func newLineIterator(r io.Reader, closer io.Closer) *lineIterator {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	return &lineIterator{scanner: scanner, closer: closer}
}

func (l *lineIterator) Next(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if l.done {
		return "", sequence.ErrIteratorDone
	}

	if !l.scanner.Scan() {
		l.Stop()
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("reading lines: %w", err)
		}
		return "", sequence.ErrIteratorDone
	}

	return l.scanner.Text(), nil
}

func (l *lineIterator) Stop() {
	if l.done {
		return
	}
	l.done = true
	if l.closer != nil {
		_ = l.closer.Close()
	}
}

// openInput returns the lines of the named file, or of the command's stdin for "-".
func openInput(cmd *cobra.Command, name string) (sequence.Iterator[string], error) {
	if name == stdinName {
		return newLineIterator(cmd.InOrStdin(), nil), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return newLineIterator(f, f), nil
}
