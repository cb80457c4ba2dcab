package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name       string
		cell       string
		want       []string
		enumerated bool
		problem    string
	}{
		{
			name:       "numbered",
			cell:       "1. Cell wall | 2. Nucleus | 3. Ribosome | 4. Vacuole",
			want:       []string{"Cell wall", "Nucleus", "Ribosome", "Vacuole"},
			enumerated: true,
		},
		{
			name:       "parenthesized letters",
			cell:       "(a) 10 m/s | (b) 20 m/s | (c) 30 m/s",
			want:       []string{"10 m/s", "20 m/s", "30 m/s"},
			enumerated: true,
		},
		{
			name:       "closing paren",
			cell:       "A) x² | B) x³",
			want:       []string{"x²", "x³"},
			enumerated: true,
		},
		{
			name:       "dotted letters",
			cell:       "A. Mercury | B. Venus | C. Earth | D. Mars",
			want:       []string{"Mercury", "Venus", "Earth", "Mars"},
			enumerated: true,
		},
		{
			name: "names with initials",
			cell: "C. V. Raman | J. C. Bose | H. J. Bhabha | S. Ramanujan",
			want: []string{"C. V. Raman", "J. C. Bose", "H. J. Bhabha", "S. Ramanujan"},
		},
		{
			name: "initials mixed with plain names",
			cell: "Homi Bhabha | C. V. Raman | Meghnad Saha",
			want: []string{"Homi Bhabha", "C. V. Raman", "Meghnad Saha"},
		},
		{
			name:       "numbered names with initials",
			cell:       "1. C. V. Raman | 2. J. C. Bose",
			want:       []string{"C. V. Raman", "J. C. Bose"},
			enumerated: true,
		},
		{
			name: "no enumerators",
			cell: "Oxygen | Nitrogen | Carbon dioxide",
			want: []string{"Oxygen", "Nitrogen", "Carbon dioxide"},
		},
		{
			name: "decimal values are not labels",
			cell: "1.5 m | 2.5 m",
			want: []string{"1.5 m", "2.5 m"},
		},
		{
			name:       "tamil text",
			cell:       "1. செல் சுவர் | 2. உட்கரு",
			want:       []string{"செல் சுவர்", "உட்கரு"},
			enumerated: true,
		},
		{
			name:    "partially labelled",
			cell:    "1. Iron | Copper | 3. Zinc",
			want:    []string{"Iron", "Copper", "Zinc"},
			problem: "malformed option enumerator",
		},
		{
			name:    "out of order labels",
			cell:    "1. Iron | 3. Copper | 2. Zinc",
			want:    []string{"Iron", "Copper", "Zinc"},
			problem: "malformed option enumerator",
		},
		{
			name: "empty",
			cell: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enumerated, problem := ParseOptions(tt.cell)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.enumerated, enumerated)
			assert.Equal(t, tt.problem, problem)
		})
	}
}

func TestParseOptions_RoundTrip(t *testing.T) {
	options := []string{"Mitochondria", "Golgi body", "Lysosome", "Centrosome"}

	labelled := make([]string, len(options))
	for i, opt := range options {
		labelled[i] = string(rune('1'+i)) + ". " + opt
	}

	got, enumerated, problem := ParseOptions(strings.Join(labelled, OptionsDelimiter))
	assert.Empty(t, problem)
	assert.True(t, enumerated)
	assert.Equal(t, options, got)

	got, enumerated, problem = ParseOptions(strings.Join(options, OptionsDelimiter))
	assert.Empty(t, problem)
	assert.False(t, enumerated)
	assert.Equal(t, options, got)
}

func TestResolveAnswer(t *testing.T) {
	options := []string{"Cell wall", "Nucleus", "Ribosome", "Vacuole"}

	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"numeric index", "2", 1},
		{"spreadsheet float", "3.0", 2},
		{"letter", "b", 1},
		{"parenthesized letter", "(D)", 3},
		{"label with text", "2. Nucleus", 1},
		{"label with text, loose case and spacing", "(b)  nucleus", 1},
		{"text only", "ribosome", 2},
		{"empty", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problem := ResolveAnswer(tt.answer, options, true)
			assert.Empty(t, problem)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAnswer_Problems(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		options []string
		problem string
	}{
		{
			name:    "index out of range",
			answer:  "5",
			options: []string{"a1", "a2", "a3", "a4"},
			problem: `answer "5" is out of range`,
		},
		{
			name:    "label with text out of range",
			answer:  "5) Iron",
			options: []string{"Copper", "Zinc"},
			problem: `answer "5) Iron" is out of range`,
		},
		{
			name:    "label disagrees with text",
			answer:  "1. Zinc",
			options: []string{"Copper", "Zinc"},
			problem: `answer "1. Zinc" does not match option 1`,
		},
		{
			name:    "unknown text",
			answer:  "Gold",
			options: []string{"Copper", "Zinc"},
			problem: `no option matches answer "Gold"`,
		},
		{
			name:    "repeated option text",
			answer:  "Zinc",
			options: []string{"Zinc", "Copper", "zinc"},
			problem: `answer "Zinc" matches more than one option`,
		},
		{
			name:    "letter label collides with option text",
			answer:  "b",
			options: []string{"c", "a", "b"},
			problem: `answer "b" is ambiguous between option 2 and option 3`,
		},
		{
			name:    "number collides with unlabelled numeric option",
			answer:  "4",
			options: []string{"2", "4", "6", "8"},
			problem: `answer "4" is ambiguous between option 4 and option 2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problem := ResolveAnswer(tt.answer, tt.options, false)
			assert.Equal(t, -1, got)
			assert.Equal(t, tt.problem, problem)
		})
	}
}

func TestResolveAnswer_EnumeratedNumericOptions(t *testing.T) {
	options, enumerated, problem := ParseOptions("1) 2 | 2) 4 | 3) 6 | 4) 8")
	assert.Empty(t, problem)
	assert.True(t, enumerated)

	got, problem := ResolveAnswer("4", options, enumerated)
	assert.Empty(t, problem)
	assert.Equal(t, 3, got)

	got, problem = ResolveAnswer("4) 8", options, enumerated)
	assert.Empty(t, problem)
	assert.Equal(t, 3, got)
}

func TestResolveAnswer_NamesWithInitials(t *testing.T) {
	options, enumerated, problem := ParseOptions("C. V. Raman | J. C. Bose | H. J. Bhabha | S. Ramanujan")
	assert.Empty(t, problem)
	assert.False(t, enumerated)

	tests := []struct {
		answer string
		want   int
	}{
		{"C. V. Raman", 0},
		{"h. j. bhabha", 2},
		{"4", 3},
	}
	for _, tt := range tests {
		got, problem := ResolveAnswer(tt.answer, options, enumerated)
		assert.Empty(t, problem, tt.answer)
		assert.Equal(t, tt.want, got, tt.answer)
	}
}
