// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNoAnswer is returned when input ends before a usable answer.
var errNoAnswer = errors.New("no answer given")

// prompter asks questions on out and reads answers from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// line returns the next trimmed line of input.
func (p *prompter) line() (string, error) {
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		if err == io.EOF {
			return "", errNoAnswer
		}
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Text asks until a non-empty answer is given.
func (p *prompter) Text(question string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", question)
		s, err := p.line()
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
	}
}

// YesNo asks until the answer is yes (s, si, sí, y, yes) or no (n, no).
func (p *prompter) YesNo(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s (s/n): ", question)
		s, err := p.line()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "s", "si", "sí", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Responda s o n.")
	}
}
