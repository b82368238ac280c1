package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errPasswordPromptMismatch = errors.New("passwords do not match")

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	restore, err := disableTerminalEcho(stdin)
	if err != nil {
		return nil, err
	}
	defer restore()

	return readPasswordLine(stdin)
}

func readPasswordLine(input io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// PromptNewPassword asks twice on a terminal without echo and returns the
// password once both answers agree.
func PromptNewPassword(stdin *os.File, prompt io.Writer) (string, error) {
	return promptNewPassword(prompt, func() ([]byte, error) { return readPasswordNoEcho(stdin) })
}

func promptNewPassword(prompt io.Writer, read func() ([]byte, error)) (string, error) {
	fmt.Fprint(prompt, "New password: ")
	first, err := read()
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(prompt, "Repeat new password: ")
	second, err := read()
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", errPasswordPromptMismatch
	}
	return string(first), nil
}
