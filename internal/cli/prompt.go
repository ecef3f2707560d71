package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

func stdinFD() int {
	return int(os.Stdin.Fd())
}

// promptPassword reads a secret without echo.
func (a *App) promptPassword(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	pwd, err := readPasswordFunc(stdinFD())
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pwd), nil
}

// promptLine reads one visible line from the shell's input.
func (a *App) promptLine(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
