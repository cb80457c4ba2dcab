package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamilprep/qbank-backend/internal/model"
)

// validCells returns a complete, valid bilingual row.
func validCells() map[string]string {
	return map[string]string{
		"_id":             "101",
		"question":        "Which organelle contains DNA?",
		"கேள்வி":          "எந்த உறுப்பில் டிஎன்ஏ உள்ளது?",
		"questionOptions": "1. Cell wall | 2. Nucleus | 3. Ribosome | 4. Vacuole",
		"விருப்பங்கள்":    "1. செல் சுவர் | 2. உட்கரு | 3. ரைபோசோம் | 4. நுண்குமிழ்",
		"answers":         "2. Nucleus",
		"பதில்":           "2. உட்கரு",
		"explanation":     "The nucleus holds the chromosomes.",
		"விளக்கம்":        "உட்கருவில் குரோமோசோம்கள் உள்ளன.",
	}
}

func rowWith(number int, changes map[string]string) Row {
	cells := validCells()
	for k, v := range changes {
		if v == "<absent>" {
			delete(cells, k)
			continue
		}
		cells[k] = v
	}
	return NewRow(number, cells)
}

func TestNormalize_ValidRow(t *testing.T) {
	c := Normalize(rowWith(2, nil))

	require.Empty(t, c.Problems)
	require.NotNil(t, c.ExternalID)
	assert.Equal(t, 101, *c.ExternalID)
	assert.Equal(t, 2, c.Row)
	assert.Equal(t, "Which organelle contains DNA?", c.Question.En)
	assert.Equal(t, []string{"Cell wall", "Nucleus", "Ribosome", "Vacuole"}, c.Options.En)
	assert.Equal(t, []string{"செல் சுவர்", "உட்கரு", "ரைபோசோம்", "நுண்குமிழ்"}, c.Options.Ta)
	assert.Equal(t, 1, c.CorrectAnswer)
	assert.Equal(t, model.DifficultyMedium, c.Difficulty)
	assert.Equal(t, model.DefaultMarks, c.Marks)
}

func TestNormalize_OptionalColumns(t *testing.T) {
	c := Normalize(rowWith(3, map[string]string{
		"_id":        "7.0",
		"topic":      "Cell organelles",
		"difficulty": "HARD",
		"marks":      "2",
	}))

	require.Empty(t, c.Problems)
	assert.Equal(t, 7, *c.ExternalID)
	assert.Equal(t, "Cell organelles", c.Topic)
	assert.Equal(t, model.DifficultyHard, c.Difficulty)
	assert.Equal(t, 2, c.Marks)
}

func TestNormalize_HeadersAreCaseInsensitive(t *testing.T) {
	cells := validCells()
	cells["QuestionOptions"] = cells["questionOptions"]
	delete(cells, "questionOptions")
	cells[" ANSWERS "] = cells["answers"]
	delete(cells, "answers")

	c := Normalize(NewRow(2, cells))
	require.Empty(t, c.Problems)
	assert.Equal(t, 1, c.CorrectAnswer)
}

func TestNormalize_Answers(t *testing.T) {
	tests := []struct {
		name     string
		changes  map[string]string
		want     int
		problems []string
	}{
		{
			name:    "tamil answer used when english is empty",
			changes: map[string]string{"answers": "", "பதில்": "3"},
			want:    2,
		},
		{
			name:    "english wins when tamil is unresolvable",
			changes: map[string]string{"பதில்": "பத்து"},
			want:    1,
		},
		{
			name:     "both answers missing",
			changes:  map[string]string{"answers": "", "பதில்": ""},
			want:     -1,
			problems: []string{"missing correct answer"},
		},
		{
			name:     "english and tamil disagree",
			changes:  map[string]string{"பதில்": "4"},
			want:     -1,
			problems: []string{"English answer is option 2 but Tamil answer is option 4"},
		},
		{
			name:     "english unresolvable",
			changes:  map[string]string{"answers": "Golgi body"},
			want:     -1,
			problems: []string{`unresolvable English answer: no option matches answer "Golgi body"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Normalize(rowWith(2, tt.changes))
			assert.Equal(t, tt.want, c.CorrectAnswer)
			assert.Equal(t, tt.problems, c.Problems)
		})
	}
}

func TestNormalize_InvalidValues(t *testing.T) {
	c := Normalize(rowWith(4, map[string]string{
		"_id":        "abc",
		"difficulty": "extreme",
		"marks":      "four",
	}))

	assert.Nil(t, c.ExternalID)
	assert.Equal(t, []string{
		`invalid _id "abc"`,
		`invalid difficulty "extreme"`,
		`invalid marks "four"`,
	}, c.Problems)
}

func TestCandidate_ToQuestion(t *testing.T) {
	meta := model.ChapterMetadata{Subject: model.SubjectBiology, Unit: 4, Chapter: 9, ChapterName: "The Tissues"}

	q := Normalize(rowWith(2, nil)).ToQuestion(meta, model.ExamTypeNEET)

	assert.Equal(t, model.ExamTypeNEET, q.ExamType)
	assert.Equal(t, model.SubjectBiology, q.Subject)
	assert.Equal(t, 4, q.Unit)
	assert.Equal(t, 9, q.Chapter)
	assert.Equal(t, "The Tissues", q.Topic)
	assert.True(t, q.IsActive)
	assert.Len(t, q.Options.Ta, len(q.Options.En))
}
