// Package form renders blank court forms as paginated PDFs: a fixed
// header block, one labeled blank line per field, and wrapped
// instruction text.
package form

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageLeftMargin = 50.0
	pageTopY       = 60.0
	pageBottomY    = 720.0
	fieldBlockH    = 40.0
	lineH          = 15.0
)

// DefaultFields is used when the caller supplies none.
var DefaultFields = []string{
	"Case Number",
	"Applicant's Name",
	"Respondent's Name",
	"Court Case Number",
	"Date of Filing",
	"Details of Opposition",
	"Grounds for Opposition",
	"Supporting Documents",
	"Contact Information",
}

type Spec struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Fields       []string `json:"fields"`
	Instructions string   `json:"instructions"`
}

type Generator struct {
	outputDir string
	logger    *log.Logger
}

func NewGenerator(outputDir string, logger *log.Logger) *Generator {
	return &Generator{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Generate writes the form and returns the path of the produced PDF.
func (g *Generator) Generate(spec Spec) (string, error) {
	if spec.Title == "" {
		return "", fmt.Errorf("form title is required")
	}
	if spec.Subtitle == "" {
		spec.Subtitle = "Supreme Court of Victoria"
	}
	if len(spec.Fields) == 0 {
		spec.Fields = DefaultFields
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()

	// Header block
	y := pageTopY
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(pageLeftMargin, y, "SUPREME COURT OF VICTORIA")
	pdf.Text(pageLeftMargin, y+20, spec.Title)
	pdf.Text(pageLeftMargin, y+40, spec.Subtitle)
	y += 80

	// One labeled blank line per field, breaking the page when the next
	// block would not fit.
	for _, field := range spec.Fields {
		if y+fieldBlockH > pageBottomY {
			pdf.AddPage()
			y = pageTopY
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(pageLeftMargin, y, field+":")
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(pageLeftMargin, y+lineH, strings.Repeat("_", 70))
		y += fieldBlockH
	}

	if spec.Instructions != "" {
		if y+100 > pageBottomY {
			pdf.AddPage()
			y = pageTopY
		}
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Text(pageLeftMargin, y+20, "Instructions:")
		y += 35

		for _, line := range strings.Split(spec.Instructions, "\n") {
			for _, wrapped := range pdf.SplitText(line, 500) {
				if y > pageBottomY {
					pdf.AddPage()
					y = pageTopY
				}
				pdf.Text(pageLeftMargin, y, wrapped)
				y += lineH
			}
		}
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := slugify(spec.Title) + ".pdf"
	outPath := filepath.Join(g.outputDir, filename)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	g.logger.Printf("[FORM] Generated %s", outPath)
	return outPath, nil
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "_")

	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "court_form"
	}
	return b.String()
}
