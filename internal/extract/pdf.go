package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/reflectcare/reflection-platform/internal/pipeline"
)

// extractPDFText parses a paginated text-bearing PDF and concatenates the
// per-page text runs with a blank line between pages. A single page
// failure fails the whole call: scanned or corrupted PDFs are expected to
// land here and the caller is advised to resubmit as an image.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", pipeline.Wrap(pipeline.KindFormatParse, err,
			"could not parse PDF; if this is a scanned document, try uploading as an image instead")
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", pipeline.E(pipeline.KindFormatParse,
				"PDF page %d is unreadable; try uploading as an image instead", i)
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", pipeline.Wrap(pipeline.KindFormatParse, err,
				"could not extract text from PDF page %d; try uploading as an image instead", i)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.Join(pages, "\n\n"), nil
}
