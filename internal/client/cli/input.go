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

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed. If EOF occurs after some input was
// read, the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetTextDefault reads a line like GetSimpleText but shows the current value
// and keeps it when the user just presses Enter. Used by the edit form so an
// unchanged field needs no retyping.
func GetTextDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	p := prompt
	if current != "" {
		p = fmt.Sprintf("%s [%s]", prompt, current)
	}
	line, err := GetSimpleText(reader, p, w)
	if err != nil {
		return "", err
	}
	if line == "" {
		return current, nil
	}
	return line, nil
}

// GetBool asks a oui/non question and returns the answer. Empty input keeps
// the current value.
func GetBool(reader *bufio.Reader, prompt string, current bool, w io.Writer) (bool, error) {
	def := "o/N"
	if current {
		def = "O/n"
	}
	line, err := GetSimpleText(reader, fmt.Sprintf("%s (%s)", prompt, def), w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return current, nil
	case "o", "oui", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo. A newline is printed after the read to keep the UI
// tidy.
func GetPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
