package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tamilprep/qbank-backend/internal/model"
)

// Candidate is a normalized row, shaped like a Question minus the fields
// that only exist once it is persisted.
type Candidate struct {
	Row           int
	ExternalID    *int
	Topic         string
	Difficulty    model.Difficulty
	Question      model.BilingualText
	Options       model.BilingualOptions
	CorrectAnswer int
	Explanation   model.BilingualText
	Marks         int
	// Problems collects what the normalizer could not make sense of.
	// A candidate with problems is always rejected by Validate.
	Problems []string
}

// Normalize maps a raw row into a bilingual candidate. It never fails; rows
// it cannot interpret come back with Problems set.
func Normalize(row Row) Candidate {
	c := Candidate{
		Row:           row.Number,
		CorrectAnswer: -1,
		Difficulty:    model.DifficultyMedium,
		Marks:         model.DefaultMarks,
	}

	c.ExternalID, c.Problems = parseExternalID(row.Get(ColumnExternalID), c.Problems)

	c.Question = readPair(row, FieldQuestion)
	c.Explanation = readPair(row, FieldExplanation)

	optCols := Columns[FieldOptions]
	var enProblem, taProblem string
	var enumerated enumeratedOptions
	c.Options.En, enumerated.en, enProblem = ParseOptions(row.Get(optCols.En))
	c.Options.Ta, enumerated.ta, taProblem = ParseOptions(row.Get(optCols.Ta))
	if enProblem != "" {
		c.Problems = append(c.Problems, "English options: "+enProblem)
	}
	if taProblem != "" {
		c.Problems = append(c.Problems, "Tamil options: "+taProblem)
	}

	c.CorrectAnswer, c.Problems = resolveCorrectAnswer(row, c.Options, enumerated, c.Problems)

	c.Topic = row.Get(ColumnTopic)

	if raw := row.Get(ColumnDifficulty); raw != "" {
		d := model.Difficulty(strings.ToLower(raw))
		if d.Valid() {
			c.Difficulty = d
		} else {
			c.Problems = append(c.Problems, fmt.Sprintf("invalid difficulty %q", raw))
		}
	}

	if raw := row.Get(ColumnMarks); raw != "" {
		if n, ok := parseInteger(raw); ok {
			c.Marks = n
		} else {
			c.Problems = append(c.Problems, fmt.Sprintf("invalid marks %q", raw))
		}
	}

	return c
}

// ToQuestion builds the persistable question for an accepted candidate,
// applying file-level metadata and defaults.
func (c Candidate) ToQuestion(meta model.ChapterMetadata, examType model.ExamType) *model.Question {
	topic := c.Topic
	if topic == "" {
		topic = meta.ChapterName
	}

	return &model.Question{
		ExternalID:    c.ExternalID,
		ExamType:      examType,
		Subject:       meta.Subject,
		Unit:          meta.Unit,
		Chapter:       meta.Chapter,
		Topic:         topic,
		Difficulty:    c.Difficulty,
		Question:      c.Question,
		Options:       c.Options,
		CorrectAnswer: c.CorrectAnswer,
		Explanation:   c.Explanation,
		Marks:         c.Marks,
		IsActive:      true,
	}
}

func readPair(row Row, f Field) model.BilingualText {
	cols := Columns[f]
	return model.BilingualText{En: row.Get(cols.En), Ta: row.Get(cols.Ta)}
}

func parseExternalID(raw string, problems []string) (*int, []string) {
	if raw == "" {
		return nil, problems
	}
	n, ok := parseInteger(raw)
	if !ok {
		return nil, append(problems, fmt.Sprintf("invalid _id %q", raw))
	}
	return &n, problems
}

// enumeratedOptions records which options cells carried 1..n labels.
type enumeratedOptions struct {
	en, ta bool
}

// resolveCorrectAnswer treats the English answer as authoritative. A Tamil
// answer is used when the English cell is empty, and must agree with the
// English one when both resolve.
func resolveCorrectAnswer(row Row, opts model.BilingualOptions, enumerated enumeratedOptions, problems []string) (int, []string) {
	cols := Columns[FieldAnswer]
	enCell, taCell := row.Get(cols.En), row.Get(cols.Ta)

	if enCell == "" && taCell == "" {
		return -1, append(problems, "missing correct answer")
	}

	if enCell == "" {
		idx, problem := ResolveAnswer(taCell, opts.Ta, enumerated.ta)
		if problem != "" {
			return -1, append(problems, "unresolvable Tamil answer: "+problem)
		}
		return idx, problems
	}

	idx, problem := ResolveAnswer(enCell, opts.En, enumerated.en)
	if problem != "" {
		return -1, append(problems, "unresolvable English answer: "+problem)
	}

	if taCell != "" && idx >= 0 {
		taIdx, taProblem := ResolveAnswer(taCell, opts.Ta, enumerated.ta)
		if taProblem == "" && taIdx >= 0 && taIdx != idx {
			return -1, append(problems, fmt.Sprintf("English answer is option %d but Tamil answer is option %d", idx+1, taIdx+1))
		}
	}
	return idx, problems
}

// parseInteger accepts "12" and spreadsheet-style "12.0".
func parseInteger(raw string) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
