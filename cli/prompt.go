// Package cli holds the terminal interaction helpers used by the finstate command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/manifoldco/promptui"
)

// ErrNoChoices is returned when there is nothing to choose from.
var ErrNoChoices = errors.New("no choices available")

// Chooser picks one of several options.
type Chooser interface {
	Choose(label string, options []string) (string, error)
}

// Prompter asks questions on a terminal through promptui.
type Prompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

var _ Chooser = (*Prompter)(nil)

// NewPrompter returns a Prompter bound to the process terminal.
func NewPrompter() *Prompter {
	return &Prompter{Stdin: os.Stdin, Stdout: os.Stdout}
}

// Choose shows options in natural order and returns the selected one.
// Typing filters the list by prefix.
func (p *Prompter) Choose(label string, options []string) (string, error) {
	items := SortedChoices(options)
	if len(items) == 0 {
		return "", ErrNoChoices
	}

	sel := &promptui.Select{
		Label:    label,
		Items:    items,
		Size:     min(len(items), 10), //nolint:mnd
		Stdin:    p.Stdin,
		Stdout:   p.Stdout,
		Searcher: prefixSearcher(items),
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("selecting %s: %w", strings.ToLower(label), err)
	}

	return value, nil
}

// SortedChoices returns the distinct options in natural order.
func SortedChoices(options []string) []string {
	out := slices.Clone(options)
	natsort.Sort(out)

	return slices.Compact(out)
}

func prefixSearcher(items []string) func(string, int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		return strings.HasPrefix(strings.ToLower(items[index]), strings.ToLower(input))
	}
}

// ScriptedChooser answers Choose from a fixed list of answers, in order.
// It is used for non-interactive runs.
type ScriptedChooser struct {
	answers []string
}

var _ Chooser = (*ScriptedChooser)(nil)

// ErrScriptExhausted is returned once every scripted answer was used.
var ErrScriptExhausted = errors.New("no scripted answers left")

// NewScriptedChooser returns a chooser replaying answers.
func NewScriptedChooser(answers ...string) *ScriptedChooser {
	return &ScriptedChooser{answers: answers}
}

// Choose returns the next answer. The answer need not be one of the
// options, so callers see the same error a bad interactive pick would cause.
func (s *ScriptedChooser) Choose(_ string, _ []string) (string, error) {
	if len(s.answers) == 0 {
		return "", ErrScriptExhausted
	}

	next := s.answers[0]
	s.answers = s.answers[1:]

	return next, nil
}

// Remaining reports how many answers are left.
func (s *ScriptedChooser) Remaining() int {
	return len(s.answers)
}
