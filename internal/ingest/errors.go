// Package ingest turns question bank spreadsheets into validated bilingual
// question candidates. Everything here is free of persistence concerns.
package ingest

import "errors"

// Fatal conditions. Any of these aborts the whole upload before a single row
// is processed.
var (
	ErrInvalidFilenameFormat = errors.New("filename does not match <subject>_unit_<N>_chap_<M>_<name>_qb.<ext>")
	ErrUnknownSubject        = errors.New("filename does not name a known subject")
	ErrUnreadableFile        = errors.New("spreadsheet could not be read")
	ErrUnsupportedFileType   = errors.New("unsupported spreadsheet type")
)
