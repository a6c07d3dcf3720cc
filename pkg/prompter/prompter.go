package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrInvalidSelection is returned when a choice is out of range
var ErrInvalidSelection = errors.New("invalid selection")

// Prompter reads answers from In and writes labels to Out. Passwords are
// read without echo when In is a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// New returns a prompter over in and out
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out}
}

// Std returns a prompter over the process's stdin and stdout
func Std() *Prompter {
	return New(os.Stdin, os.Stdout)
}

func (p *Prompter) line() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	input, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// String prompts for a line of input
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	input, err := p.line()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Required prompts until a non-empty answer is given
func (p *Prompter) Required(label string) (string, error) {
	for {
		input, err := p.String(label)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		fmt.Fprintln(p.Out, "A value is required.")
	}
}

// Password prompts for a secret
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.Out, label)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	return p.line()
}

// Confirm prompts for yes/no. Anything but y or yes is no.
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.Out, label+" (y/n) ")
	input, err := p.line()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(input))
	return response == "y" || response == "yes", nil
}

// Select prompts for one of options and returns its index
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.Out, label)
	for i, opt := range options {
		fmt.Fprintf(p.Out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(p.Out, "Select option: ")
	input, err := p.line()
	if err != nil {
		return -1, err
	}

	selection, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || selection < 1 || selection > len(options) {
		return -1, ErrInvalidSelection
	}
	return selection - 1, nil
}

// Multiline reads lines until an empty line or maxLines
func (p *Prompter) Multiline(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.Out, "%s (empty line to finish):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.line()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

var std = Std()

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	return std.String(label)
}

// PromptPassword prompts user for a password (hidden input)
func PromptPassword(label string) (string, error) {
	return std.Password(label)
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	return std.Confirm(label)
}

// PromptSelect prompts user to select from options
func PromptSelect(label string, options []string) (int, error) {
	return std.Select(label, options)
}
