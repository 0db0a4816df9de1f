package repl

import (
	"bufio"
	"errors"
	"io"

	"github.com/peterh/liner"
)

var errInterrupted = errors.New("interrupted")

type lineReader interface {
	// ReadLine reads a line. It returns io.EOF at the end of input and
	// errInterrupted when the user aborts the line.
	ReadLine(prompt string) (string, error)
	AddHistory(line string)
	Close() error
}

// Reads from a terminal with line editing.
type linerReader struct {
	state *liner.State
}

func newLinerReader(history []string) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	for _, line := range history {
		state.AppendHistory(line)
	}
	return &linerReader{state}
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", errInterrupted
	}
	return line, err
}

func (r *linerReader) AddHistory(line string) { r.state.AppendHistory(line) }

func (r *linerReader) Close() error { return r.state.Close() }

// Reads from anything else, without prompts.
type plainReader struct {
	scanner *bufio.Scanner
}

func newPlainReader(r io.Reader) *plainReader {
	return &plainReader{bufio.NewScanner(r)}
}

func (r *plainReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *plainReader) AddHistory(string) {}

func (r *plainReader) Close() error { return nil }
