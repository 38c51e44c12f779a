package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// View reads user input line by line and prints messages.
type View struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewView creates a View over the given input and output.
func NewView(in io.Reader, out io.Writer) *View {
	return &View{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// PrintMessage writes msg followed by a newline.
func (v *View) PrintMessage(msg string) {
	fmt.Fprintln(v.out, msg)
}

// PrintList writes one line per item, or empty when there are none.
func PrintList[T fmt.Stringer](v *View, items []T, empty string) {
	if len(items) == 0 {
		v.PrintMessage(empty)
		return
	}
	for _, item := range items {
		v.PrintMessage(item.String())
	}
}

// ReadString returns the next trimmed input line. It returns io.EOF once the
// input is exhausted.
func (v *View) ReadString() (string, error) {
	if !v.scanner.Scan() {
		if err := v.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(v.scanner.Text()), nil
}

// ReadNumber reads lines until one holds an integer.
func (v *View) ReadNumber() (int, error) {
	for {
		line, err := v.ReadString()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		v.PrintMessage("Please enter a number...")
	}
}
