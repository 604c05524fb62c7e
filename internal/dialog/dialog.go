// Package dialog defines the input and confirmation prompts the session suspends on.
// Cancelling a prompt is an ordinary outcome, never an error.
package dialog

import (
	"context"
	"strings"
)

type Answer int

const (
	Cancelled Answer = iota
	Affirmative
	Negative
)

func (a Answer) String() string {
	switch a {
	case Affirmative:
		return "yes"
	case Negative:
		return "no"
	default:
		return "cancelled"
	}
}

// Confirmed treats a cancelled prompt the same as a decline.
func (a Answer) Confirmed() bool { return a == Affirmative }

type InputResult struct {
	Value     string
	Cancelled bool
}

// Text returns the trimmed value, or false when the prompt was cancelled or left blank.
func (r InputResult) Text() (string, bool) {
	if r.Cancelled {
		return "", false
	}
	v := strings.TrimSpace(r.Value)
	return v, v != ""
}

// Prompter blocks until the user answers. Errors are reserved for the prompt itself
// failing (e.g. the UI went away), not for the user backing out.
type Prompter interface {
	Input(ctx context.Context, title, initial string) (InputResult, error)
	Confirm(ctx context.Context, message string) (Answer, error)
}

// Fixed answers every prompt the same way. The CLI uses it to pass flag values
// through the same code path as the interactive editor.
type Fixed struct {
	Value  string
	Answer Answer
	// Cancel makes every Input come back cancelled.
	Cancel bool
}

func (f Fixed) Input(ctx context.Context, _, _ string) (InputResult, error) {
	if err := ctx.Err(); err != nil {
		return InputResult{}, err
	}
	if f.Cancel {
		return InputResult{Cancelled: true}, nil
	}
	return InputResult{Value: f.Value}, nil
}

func (f Fixed) Confirm(ctx context.Context, _ string) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Cancelled, err
	}
	return f.Answer, nil
}

// Script replays queued answers in order; an exhausted queue cancels.
type Script struct {
	Inputs  []InputResult
	Answers []Answer

	// Prompts records every title and message shown.
	Prompts []string
}

func (s *Script) Input(_ context.Context, title, _ string) (InputResult, error) {
	s.Prompts = append(s.Prompts, title)
	if len(s.Inputs) == 0 {
		return InputResult{Cancelled: true}, nil
	}
	r := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return r, nil
}

func (s *Script) Confirm(_ context.Context, message string) (Answer, error) {
	s.Prompts = append(s.Prompts, message)
	if len(s.Answers) == 0 {
		return Cancelled, nil
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}
