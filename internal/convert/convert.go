// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns resume documents into plain text for section and
// skill detection. Plain text and Markdown are read directly, Word files
// are parsed in process, and PDFs are piped through a markitdown container.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/pdiddy/skillgap/internal/container"
)

var (
	// ErrUnsupported is returned for file extensions no converter handles.
	ErrUnsupported = errors.New("unsupported resume format")

	// ErrEmpty is returned when a document converts to blank text.
	ErrEmpty = errors.New("no text in document")
)

// Converter extracts the text of one document.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// PlainText reads .txt and .md files. A UTF-8 or UTF-16 byte order mark
// selects the decoding; without one the file is taken as UTF-8.
type PlainText struct{}

func (PlainText) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return string(decoded), nil
}

// Router picks a converter by file extension. The PDF converter needs a
// container runtime and is created on first use.
type Router struct {
	plain  Converter
	docx   Converter
	newPDF func(ctx context.Context) (Converter, error)
	pdf    Converter
}

// NewRouter returns a Router backed by the local container runtime for PDFs.
func NewRouter() *Router {
	return &Router{
		plain: PlainText{},
		docx:  Docx{},
		newPDF: func(ctx context.Context) (Converter, error) {
			rt, err := container.DetectRuntime(ctx)
			if err != nil {
				return nil, err
			}
			return NewMarkitdownConverter(ctx, rt)
		},
	}
}

// Supported reports whether path has an extension the router handles.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".markdown", ".docx", ".pdf":
		return true
	}
	return false
}

// For returns the converter for path.
func (r *Router) For(ctx context.Context, path string) (Converter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".markdown":
		return r.plain, nil
	case ".docx":
		return r.docx, nil
	case ".pdf":
		if r.pdf == nil {
			c, err := r.newPDF(ctx)
			if err != nil {
				return nil, fmt.Errorf("PDF conversion unavailable: %w", err)
			}
			r.pdf = c
		}
		return r.pdf, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// Text converts the document at path and cleans the result.
func (r *Router) Text(ctx context.Context, path string) (string, error) {
	c, err := r.For(ctx, path)
	if err != nil {
		return "", err
	}
	raw, err := c.Convert(ctx, path)
	if err != nil {
		return "", err
	}
	text := Clean(raw)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmpty, filepath.Base(path))
	}
	return text, nil
}

// Clean normalizes line endings, drops Markdown heading and emphasis
// markers so headers read as plain lines, trims trailing space, and
// collapses runs of blank lines.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		line = strings.TrimLeft(line, "#")
		line = strings.ReplaceAll(line, "**", "")
		line = strings.ReplaceAll(line, "__", "")
		if strings.TrimSpace(line) == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(strings.TrimLeft(line, " "))
	}
	return b.String()
}
