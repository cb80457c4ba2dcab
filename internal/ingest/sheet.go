package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Row is one data row of the first sheet, keyed by normalized header.
type Row struct {
	// Number is the 1-based spreadsheet row number, counting the header row.
	Number int
	cells  map[string]string
}

// NewRow builds a row from header → value pairs.
func NewRow(number int, values map[string]string) Row {
	cells := make(map[string]string, len(values))
	for header, value := range values {
		key := headerKey(header)
		if _, taken := cells[key]; !taken {
			cells[key] = strings.TrimSpace(value)
		}
	}
	return Row{Number: number, cells: cells}
}

// Get returns the trimmed cell under header, or "" when the column is absent.
func (r Row) Get(header string) string {
	return r.cells[headerKey(header)]
}

func (r Row) blank() bool {
	for _, v := range r.cells {
		if v != "" {
			return false
		}
	}
	return true
}

// Sheet is the tabular content of an uploaded file.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// ReadSheet opens the uploaded bytes according to the file extension and
// returns the first sheet. Fully blank rows are dropped.
func ReadSheet(fileName string, data []byte) (*Sheet, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".xlsx", ".xlsm":
		return readWorkbook(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

var supportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// SupportedExtensions lists the file extensions ReadSheet can open.
func SupportedExtensions() []string {
	return append([]string(nil), supportedExtensions...)
}

// SupportedExtension reports whether ReadSheet can open files named like fileName.
func SupportedExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, known := range supportedExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func readWorkbook(data []byte) (*Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	records, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return buildSheet(records), nil
}

func readCSV(data []byte) (*Sheet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return buildSheet(records), nil
}

func buildSheet(records [][]string) *Sheet {
	sheet := &Sheet{}
	if len(records) == 0 {
		return sheet
	}

	for _, h := range records[0] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	for i, record := range records[1:] {
		values := make(map[string]string, len(sheet.Headers))
		for col, header := range sheet.Headers {
			if header == "" {
				continue
			}
			if _, seen := values[header]; seen {
				continue
			}
			if col < len(record) {
				values[header] = record[col]
			} else {
				values[header] = ""
			}
		}

		row := NewRow(i+2, values)
		if row.blank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// headerKey normalizes a header for lookup: trimmed, NFC-composed and
// lower-cased so that English headers match case-insensitively and Tamil
// headers match regardless of how their code points were typed.
func headerKey(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	return strings.ToLower(norm.NFC.String(h))
}
