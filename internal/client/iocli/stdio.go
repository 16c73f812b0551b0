package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console reads prompts from in and writes to out.
// Passwords are read without echo when in is a terminal.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

// NewStdio returns a console bound to the process stdin and stdout
func NewStdio() *Console {
	c := NewConsole(os.Stdin, os.Stdout)
	c.fd = int(os.Stdin.Fd())
	c.isTerm = term.IsTerminal(c.fd)
	return c
}

// NewConsole returns a console over arbitrary streams (pipes, tests)
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *Console) ReadInput(prompt string) (string, error) {
	c.Printf("%s", prompt)
	return c.readLine()
}

func (c *Console) ReadPassword(prompt string) (string, error) {
	c.Printf("%s", prompt)
	if !c.isTerm {
		// пароль из pipe
		return c.readLine()
	}

	pw, err := term.ReadPassword(c.fd)
	c.Println("")
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
