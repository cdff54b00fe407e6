package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter wraps an input scanner and output writer for interactive prompts.
// Inject a custom reader/writer for tests.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a Prompter using stdin/stdout.
func NewPrompter() *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
	}
}

// NewPrompterFromReader creates a Prompter with custom reader/writer (for tests).
func NewPrompterFromReader(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(r),
		out:     w,
	}
}

// String prompts for a string value. Returns defaultVal on empty input.
func (p *Prompter) String(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	if !p.scanner.Scan() {
		return defaultVal
	}
	input := strings.TrimSpace(p.scanner.Text())
	if input == "" {
		return defaultVal
	}
	return input
}

// Float prompts for a float value. Returns defaultVal on empty or
// unparsable input.
func (p *Prompter) Float(prompt string, defaultVal float64) float64 {
	input := p.String(fmt.Sprintf("%s [%g]", prompt, defaultVal), "")
	if input == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Fprintf(p.out, "not a number, using %g\n", defaultVal)
		return defaultVal
	}
	return v
}
