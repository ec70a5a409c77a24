// Package docs turns uploaded resume documents into plain text.
package docs

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrInvalidInput is returned for unsupported documents and documents without
// readable text.
var ErrInvalidInput = errors.New("invalid input")

// Kind is a supported document type.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindTXT  Kind = "txt"
)

var Kinds = []Kind{KindPDF, KindDOCX, KindTXT}

var mimeKinds = map[string]Kind{
	"application/pdf": KindPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindDOCX,
	"text/plain": KindTXT,
}

// KindOf detects the document type from a file name, falling back to the
// MIME type when the extension is unknown.
func KindOf(name, mime string) (Kind, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, k := range Kinds {
		if ext == string(k) {
			return k, nil
		}
	}

	mime = strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
	if k, ok := mimeKinds[strings.ToLower(mime)]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, name)
}

// Extract returns the text of a document. Empty documents and documents
// without extractable text yield ErrInvalidInput.
func Extract(kind Kind, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrInvalidInput)
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindTXT:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return "", err
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text found in %s document", ErrInvalidInput, kind)
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: failed to read pdf: %v", ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read pdf: %v", ErrInvalidInput, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:br />|<w:cr/>`)
	tabTag       = regexp.MustCompile(`<w:tab/>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse docx: %v", ErrInvalidInput, err)
	}
	defer doc.Close()

	return docxText(doc.Editable().GetContent()), nil
}

// docxText reduces WordprocessingML to text with one line per paragraph.
func docxText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabTag.ReplaceAllString(content, "\t")
	content = anyTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
