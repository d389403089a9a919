package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText reads the embedded text layer of every page and joins
// them with newlines. Pages whose extraction fails are skipped rather
// than failing the whole document.
func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var pages []string
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.ReplaceAll(text, "\x00", ""))
	}

	return strings.Join(pages, "\n"), nil
}
