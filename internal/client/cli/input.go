package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams over golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrEmptyInput is returned when a required answer is blank.
var ErrEmptyInput = errors.New("input must not be empty")

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The line is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetPassword prompts on w and reads a password. On a terminal the input is
// not echoed; otherwise (piped input, scripts) the next line of reader is
// used. Empty passwords are rejected.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	var (
		pw  []byte
		err error
	)
	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		pw, err = readPassword(fd)
		_, _ = fmt.Fprintln(w)
	} else {
		var line string
		line, err = readLine(reader)
		pw = []byte(line)
	}
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, ErrEmptyInput
	}
	return pw, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
