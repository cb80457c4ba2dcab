package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tamilprep/qbank-backend/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilenameFormat is the user-facing description of the required filename.
const FilenameFormat = "subject_unit_<N>_chap_<M>_<name>_qb.xlsx"

var filenamePattern = regexp.MustCompile(`(?i)^([a-z]+)_unit_(\d+)_chap_(\d+)_([a-z0-9_]+?)_qb\.([a-z0-9]+)$`)

// Shorter tokens would match several subjects by accident ("is", "ch").
const minSubjectTokenLen = 3

var subjectAliases = map[model.Subject][]string{
	model.SubjectPhysics:   {"physics"},
	model.SubjectChemistry: {"chemistry"},
	model.SubjectBiology:   {"biology"},
	model.SubjectMaths:     {"maths", "math", "mathematics"},
}

// ParseFilename extracts subject, unit, chapter and chapter name from a
// question bank filename such as biology_unit_4_chap_9_the_tissues_qb.xlsx.
func ParseFilename(name string) (model.ChapterMetadata, error) {
	base := filepath.Base(strings.TrimSpace(name))

	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return model.ChapterMetadata{}, fmt.Errorf("%w: %q", ErrInvalidFilenameFormat, base)
	}

	unit, err := strconv.Atoi(m[2])
	if err != nil || unit < 1 {
		return model.ChapterMetadata{}, fmt.Errorf("%w: unit %q in %q", ErrInvalidFilenameFormat, m[2], base)
	}
	chapter, err := strconv.Atoi(m[3])
	if err != nil || chapter < 1 {
		return model.ChapterMetadata{}, fmt.Errorf("%w: chapter %q in %q", ErrInvalidFilenameFormat, m[3], base)
	}

	chapterName := HumanizeChapterName(m[4])
	if chapterName == "" {
		return model.ChapterMetadata{}, fmt.Errorf("%w: empty chapter name in %q", ErrInvalidFilenameFormat, base)
	}

	subject, err := ResolveSubject(m[1])
	if err != nil {
		return model.ChapterMetadata{}, err
	}

	return model.ChapterMetadata{
		Subject:     subject,
		Unit:        unit,
		Chapter:     chapter,
		ChapterName: chapterName,
	}, nil
}

// ResolveSubject maps a filename token to a subject. The token may be a
// substring of the subject name ("bio", "chem") or contain it; it must
// identify exactly one subject.
func ResolveSubject(token string) (model.Subject, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) < minSubjectTokenLen {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubject, token)
	}

	var found []model.Subject
	for _, subject := range model.Subjects {
		for _, alias := range subjectAliases[subject] {
			if strings.Contains(alias, t) || strings.Contains(t, alias) {
				found = append(found, subject)
				break
			}
		}
	}

	if len(found) != 1 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubject, token)
	}
	return found[0], nil
}

// HumanizeChapterName turns "the_tissues" into "The Tissues".
func HumanizeChapterName(raw string) string {
	words := strings.FieldsFunc(raw, func(r rune) bool { return r == '_' || r == ' ' })
	// Casers are stateful, so one is built per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
