// Package extract turns uploaded PDF or plain-text files into a single
// sanitized string.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

var (
	// ErrUnsupportedType is returned for anything other than .pdf or .txt.
	ErrUnsupportedType = errors.New("unsupported file type, expected .pdf or .txt")
	// ErrNoText is returned when a file yields no extractable text.
	ErrNoText = errors.New("no text extracted from file")
)

// FromUpload extracts text from uploaded file bytes, dispatching on the
// file extension. The result is sanitized; an empty result is an error.
func FromUpload(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		text, err = FromPDF(data)
	case ".txt":
		text = string(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}
	text = Sanitize(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// FromPDF concatenates the text of every page in order. The rsc.io/pdf
// reader panics on some malformed files, so the panic is converted into
// an error here instead of taking the process down.
func FromPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Sanitize normalizes line endings and collapses runs of whitespace into
// single spaces.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Join(strings.Fields(s), " ")
}
