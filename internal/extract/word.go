package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

// extractWordText pulls the flat text body out of a word-processor
// document. Paragraphs are joined with newlines; drawing/embedded items
// without a text rendering are skipped.
func extractWordText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", pipeline.Wrap(pipeline.KindFormatParse, err,
			"could not parse Word document; try uploading as an image instead")
	}

	var parts []string
	for _, item := range doc.Document.Body.Items {
		s, ok := item.(fmt.Stringer)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(s.String()); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
