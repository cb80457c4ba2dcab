package ingest

import (
	"fmt"
	"strings"
)

// Verdict is the outcome of validating one candidate.
type Verdict struct {
	Accepted bool
	// Reason is the user-facing rejection message, e.g.
	// "Row 14: missing Tamil explanation".
	Reason   string
	Problems []string
}

// Validate checks completeness and bilingual parity of a candidate. It is
// the only place row-level business rules live.
func Validate(c Candidate) Verdict {
	problems := append([]string(nil), c.Problems...)

	problems = requireText(problems, "English question", c.Question.En)
	problems = requireText(problems, "Tamil question", c.Question.Ta)

	en, ta := c.Options.En, c.Options.Ta
	switch {
	case len(en) == 0 && len(ta) == 0:
		problems = append(problems, "missing English options", "missing Tamil options")
	case len(en) == 0:
		problems = append(problems, "missing English options")
	case len(ta) == 0:
		problems = append(problems, "missing Tamil options")
	default:
		problems = emptyOptions(problems, "English", en)
		problems = emptyOptions(problems, "Tamil", ta)
		if len(en) != len(ta) {
			problems = append(problems, fmt.Sprintf("option count mismatch: %d English, %d Tamil", len(en), len(ta)))
		} else if len(en) < 2 {
			problems = append(problems, "at least two options are required")
		}
	}

	switch {
	case c.CorrectAnswer >= len(en) || c.CorrectAnswer >= len(ta):
		if len(en) > 0 && len(ta) > 0 {
			problems = append(problems, fmt.Sprintf("correct answer %d is out of range", c.CorrectAnswer+1))
		}
	case c.CorrectAnswer < 0 && len(c.Problems) == 0 && len(en) > 0 && len(ta) > 0:
		problems = append(problems, "missing correct answer")
	}

	problems = requireText(problems, "English explanation", c.Explanation.En)
	problems = requireText(problems, "Tamil explanation", c.Explanation.Ta)

	if c.Marks < 1 {
		problems = append(problems, "marks must be positive")
	}
	if !c.Difficulty.Valid() {
		problems = append(problems, fmt.Sprintf("invalid difficulty %q", c.Difficulty))
	}

	if len(problems) == 0 {
		return Verdict{Accepted: true}
	}
	return Verdict{
		Reason:   rowLabel(c) + ": " + strings.Join(problems, "; "),
		Problems: problems,
	}
}

func rowLabel(c Candidate) string {
	if c.ExternalID != nil {
		return fmt.Sprintf("Row %d (_id %d)", c.Row, *c.ExternalID)
	}
	return fmt.Sprintf("Row %d", c.Row)
}

func requireText(problems []string, what, value string) []string {
	if strings.TrimSpace(value) == "" {
		return append(problems, "missing "+what)
	}
	return problems
}

func emptyOptions(problems []string, lang string, options []string) []string {
	for i, opt := range options {
		if opt == "" {
			problems = append(problems, fmt.Sprintf("%s option %d is empty", lang, i+1))
		}
	}
	return problems
}
