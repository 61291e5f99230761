package convert

import (
	"context"
	"fmt"
	"strings"

	"baliance.com/gooxml/document"
)

// Docx reads Word documents. Body paragraphs come first, one per line,
// followed by table rows with cells joined by " | ".
type Docx struct{}

func (Docx) Convert(_ context.Context, path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}

	var b strings.Builder
	for _, p := range doc.Paragraphs() {
		b.WriteString(paragraphText(p))
		b.WriteByte('\n')
	}
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			cells := make([]string, 0, len(row.Cells()))
			for _, c := range row.Cells() {
				var parts []string
				for _, p := range c.Paragraphs() {
					if s := strings.TrimSpace(paragraphText(p)); s != "" {
						parts = append(parts, s)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			b.WriteString(strings.Join(cells, " | "))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func paragraphText(p document.Paragraph) string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}
