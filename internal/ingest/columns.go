package ingest

// Field is a logical bilingual field of a question bank row.
type Field string

const (
	FieldQuestion    Field = "question"
	FieldOptions     Field = "options"
	FieldAnswer      Field = "answer"
	FieldExplanation Field = "explanation"
)

// ColumnPair names the English and Tamil header of one bilingual field.
type ColumnPair struct {
	En string `json:"en"`
	Ta string `json:"ta"`
}

// Columns maps each bilingual field to its spreadsheet headers. The
// normalizer reads headers only through this table.
var Columns = map[Field]ColumnPair{
	FieldQuestion:    {En: "question", Ta: "கேள்வி"},
	FieldOptions:     {En: "questionOptions", Ta: "விருப்பங்கள்"},
	FieldAnswer:      {En: "answers", Ta: "பதில்"},
	FieldExplanation: {En: "explanation", Ta: "விளக்கம்"},
}

// Single-language columns. Only ColumnExternalID is part of the documented
// format; the others are optional and fall back to defaults.
const (
	ColumnExternalID = "_id"
	ColumnTopic      = "topic"
	ColumnDifficulty = "difficulty"
	ColumnMarks      = "marks"
)

// OptionsDelimiter separates entries inside an options cell.
const OptionsDelimiter = " | "

// RequiredColumns lists the documented headers in their conventional order.
func RequiredColumns() []string {
	cols := []string{ColumnExternalID}
	for _, f := range []Field{FieldQuestion, FieldOptions, FieldAnswer, FieldExplanation} {
		cols = append(cols, Columns[f].En, Columns[f].Ta)
	}
	return cols
}
