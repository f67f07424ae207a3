package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"golang.org/x/term"
)

// PromptForSecret reads a passcode from the terminal twice and verifies the
// entries match. Only characters of alphabet are accepted. If mask is true
// input is read in raw mode with '*' echo; otherwise the terminal's hidden
// input is used. Errors never echo what was typed.
func PromptForSecret(mask bool, alphabet string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("prompt requires an interactive terminal")
	}

	read := func(prompt string) (string, error) {
		if mask {
			return readMasked(fd, prompt, alphabet)
		}
		return readHidden(fd, prompt)
	}

	s1, err := read("Enter passcode: ")
	if err != nil {
		return "", err
	}
	s2, err := read("Re-enter passcode: ")
	if err != nil {
		return "", err
	}
	if s1 != s2 {
		return "", fmt.Errorf("passcodes do not match")
	}
	return s1, nil
}

func readHidden(fd int, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, "\r"+prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passcode")
	}
	return strings.TrimSpace(string(b)), nil
}

// readMasked reads in raw mode with '*' echo and restores the terminal on
// SIGINT/SIGTERM. Runes outside alphabet are ignored.
func readMasked(fd int, prompt, alphabet string) (string, error) {
	fmt.Fprint(os.Stderr, "\r"+prompt)

	oldState, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("terminal not ready")
	}
	restore := func() { _ = term.Restore(fd, oldState) }

	done := make(chan struct{})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigc:
			restore()
			os.Exit(130)
		case <-done:
		}
	}()

	if _, err := term.MakeRaw(fd); err != nil {
		signal.Stop(sigc)
		close(done)
		return "", fmt.Errorf("terminal not ready")
	}
	defer func() { restore(); signal.Stop(sigc); close(done) }()

	secret, err := scanMasked(bufio.NewReader(os.Stdin), os.Stderr, alphabet)
	if errors.Is(err, errInterrupted) {
		restore()
		os.Exit(130)
	}
	return secret, err
}

var errInterrupted = errors.New("interrupted")

// scanMasked decodes UTF-8 keystrokes from r until Enter or EOF, echoing
// '*' for each accepted rune. Backspace removes the last rune. Runes
// outside alphabet, including undecodable bytes, are dropped.
func scanMasked(r io.RuneReader, echo io.Writer, alphabet string) (string, error) {
	var buf []rune
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			break
		}
		switch {
		case ch == '\r' || ch == '\n':
			fmt.Fprint(echo, "\r\n")
			return string(buf), nil
		case ch == 0x7f || ch == '\b': // backspace/delete
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				fmt.Fprint(echo, "\b \b")
			}
		case ch == 0x03: // Ctrl-C arrives as a byte in raw mode
			return "", errInterrupted
		case ch == utf8.RuneError || !strings.ContainsRune(alphabet, ch):
		default:
			buf = append(buf, ch)
			fmt.Fprint(echo, "*")
		}
	}
	return string(buf), nil
}
