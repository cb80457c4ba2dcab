package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// enumeratorPattern matches a leading option label: "(1)", "1)", "1.", "1:",
// "(a)", "a)", "A.". Dotted and colon forms need trailing whitespace so that
// values like "1.5 m" or "e.g. water" keep their text.
var enumeratorPattern = regexp.MustCompile(`^\s*(?:\((\d{1,2}|[A-Za-z])\)\s*|(\d{1,2})\)\s*|(\d{1,2})[.:]\s+|([A-Za-z])\)\s*|([A-Za-z])\.\s+)`)

// label is a leading option enumerator and the text after it.
type label struct {
	ordinal int
	rest    string
	// weak marks the "A." form, which names with initials such as
	// "C. V. Raman" produce as well.
	weak bool
}

// splitEnumerator separates a leading label from the text after it.
// The ordinal is 1-based; ok is false when s carries no label.
func splitEnumerator(s string) (l label, ok bool) {
	m := enumeratorPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return label{rest: s}, false
	}

	for g := 1; g <= 5; g++ {
		if m[2*g] >= 0 {
			l.ordinal = labelOrdinal(s[m[2*g]:m[2*g+1]])
			l.weak = g == 5
			break
		}
	}
	l.rest = strings.TrimSpace(s[m[1]:])
	return l, true
}

// labelOrdinal converts "3" or "c"/"C" to 3.
func labelOrdinal(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	r := unicode.ToLower(rune(s[0]))
	return int(r-'a') + 1
}

// ParseOptions splits an options cell on OptionsDelimiter and strips leading
// enumerators. Order is preserved. enumerated reports that every entry
// carried a label and the labels ran 1..n. "A." style labels only count
// when they form such a sequence; otherwise the entries are kept as text.
// problem is non-empty when digit or parenthesized labels are used
// inconsistently.
func ParseOptions(cell string) (options []string, enumerated bool, problem string) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, false, ""
	}

	parts := strings.Split(cell, OptionsDelimiter)
	labels := make([]label, len(parts))
	found := make([]bool, len(parts))
	labeled, strong := 0, 0
	sequential := true

	for i, part := range parts {
		l, ok := splitEnumerator(strings.TrimSpace(part))
		labels[i], found[i] = l, ok
		if !ok {
			continue
		}
		labeled++
		if !l.weak {
			strong++
		}
		if l.ordinal != i+1 {
			sequential = false
		}
	}

	options = make([]string, len(parts))
	switch {
	case labeled == len(parts) && sequential:
		for i, l := range labels {
			options[i] = l.rest
		}
		return options, true, ""
	case strong == 0:
		for i, part := range parts {
			options[i] = strings.TrimSpace(part)
		}
		return options, false, ""
	}

	for i, part := range parts {
		options[i] = strings.TrimSpace(part)
		if found[i] && !labels[i].weak {
			options[i] = labels[i].rest
		}
	}
	return options, false, "malformed option enumerator"
}

// ResolveAnswer maps an answer cell to a zero-based index into options.
// The cell may be a bare label or 1-based index ("2", "b"), a label with
// the option text ("2) Nucleus"), or the option text itself. When the
// options cell was enumerated, a bare label that also equals another
// option's text resolves as the label. It returns -1 and a problem when the
// answer cannot be resolved unambiguously; -1 with no problem means there
// was nothing to resolve against.
func ResolveAnswer(cell string, options []string, enumerated bool) (int, string) {
	answer := strings.TrimSpace(cell)
	if answer == "" || len(options) == 0 {
		return -1, ""
	}

	if l, ok := splitEnumerator(answer); ok && l.rest != "" {
		idx := l.ordinal - 1
		inRange := idx >= 0 && idx < len(options)
		switch {
		case inRange && sameText(options[idx], l.rest):
			return idx, ""
		case l.weak:
			// "C. V. Raman" may be the option text itself.
		case !inRange:
			return -1, fmt.Sprintf("answer %q is out of range", answer)
		default:
			return -1, fmt.Sprintf("answer %q does not match option %d", answer, l.ordinal)
		}
	}

	labelIdx := -1
	if ordinal, ok := bareLabel(answer); ok {
		labelIdx = ordinal - 1
		if labelIdx >= len(options) {
			labelIdx = -1
		}
	}

	textIdx, matches := -1, 0
	for i, opt := range options {
		if sameText(opt, answer) {
			textIdx = i
			matches++
		}
	}

	switch {
	case matches > 1:
		return -1, fmt.Sprintf("answer %q matches more than one option", answer)
	case matches == 1 && labelIdx >= 0 && labelIdx != textIdx && enumerated:
		return labelIdx, ""
	case matches == 1 && labelIdx >= 0 && labelIdx != textIdx:
		return -1, fmt.Sprintf("answer %q is ambiguous between option %d and option %d", answer, labelIdx+1, textIdx+1)
	case matches == 1:
		return textIdx, ""
	case labelIdx >= 0:
		return labelIdx, ""
	}

	if _, ok := bareLabel(answer); ok {
		return -1, fmt.Sprintf("answer %q is out of range", answer)
	}
	return -1, fmt.Sprintf("no option matches answer %q", answer)
}

// bareLabel recognises "2", "2)", "(2)", "b", "b)", "(B)".
func bareLabel(s string) (int, bool) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) && f > 0 {
		return int(f), true
	}
	if len(s) == 1 && unicode.IsLetter(rune(s[0])) {
		return labelOrdinal(s), true
	}
	return 0, false
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}
