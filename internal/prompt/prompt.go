// Package prompt asks the user for a title and for confirmation before a
// download starts. On a terminal it renders huh forms; otherwise it reads
// plain lines so input can be piped.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter collects the query and the download confirmation.
type Prompter interface {
	Query() (string, error)
	ConfirmDownload(title, author string) (bool, error)
}

// New returns a huh-backed prompter when in is a terminal and a line-based
// one otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if IsTerminal(in) {
		return &Form{}
	}
	return NewLine(in, out)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsAbort reports whether err means the user cancelled a form.
func IsAbort(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}

// Form renders prompts with huh.
type Form struct{}

func (Form) Query() (string, error) {
	var q string
	err := huh.NewInput().
		Title("Novel title").
		Prompt("> ").
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("title is required")
			}
			return nil
		}).
		Value(&q).
		Run()
	return strings.TrimSpace(q), err
}

func (Form) ConfirmDownload(title, author string) (bool, error) {
	ok := true
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Found: %s", title)).
		Description(fmt.Sprintf("Author: %s", author)).
		Affirmative("Download").
		Negative("Cancel").
		Value(&ok).
		Run()
	if IsAbort(err) {
		return false, nil
	}
	return ok, err
}

// Line reads answers one line at a time.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine wraps r and w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{in: bufio.NewReader(r), out: w}
}

func (l *Line) Query() (string, error) {
	fmt.Fprint(l.out, "Novel title: ")
	line, err := l.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ConfirmDownload treats Enter (or end of input) as yes and n/no/q as no.
func (l *Line) ConfirmDownload(title, author string) (bool, error) {
	fmt.Fprintf(l.out, "\nFound: %s  Author: %s\n\nPress Enter to download, n to cancel: ", title, author)
	line, err := l.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no", "q", "quit":
		return false, nil
	}
	return true, nil
}

// Pause writes msg and waits for a line on r. Read errors are ignored.
func Pause(r io.Reader, w io.Writer, msg string) {
	fmt.Fprint(w, msg)
	_, _ = bufio.NewReader(r).ReadString('\n')
}
