// Package export renders quote lists and single quotes as spreadsheets and
// PDF documents. Functions return bytes and a suggested filename; writing
// them somewhere is up to the caller.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// Content types of produced artifacts.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Default base names.
const (
	DefaultSpreadsheetName = "devis"
	DefaultReportName      = "rapport_devis"
)

// Artifact is a rendered document.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	// Pages is set for PDF documents.
	Pages int
}

// stamped returns "{name}_{YYYY-MM-DD}{ext}" using the UTC date of now.
func stamped(name, def, ext string, now time.Time) string {
	if name == "" {
		name = def
	}
	return fmt.Sprintf("%s_%s%s", name, now.UTC().Format("2006-01-02"), ext)
}

func money(d quote.Decimal) string {
	return format.Euros(d.Float())
}

func refName(r *quote.Ref) string {
	if r == nil || r.Name == "" {
		return format.NA
	}
	return r.Name
}

func orNA(s string) string {
	if s == "" {
		return format.NA
	}
	return s
}

// columns is the fixed spreadsheet header with the width of each column.
var columns = []struct {
	title string
	width float64
}{
	{"N° Devis", 15},
	{"Client", 25},
	{"Email", 30},
	{"Téléphone", 15},
	{"Type de projet", 25},
	{"Catégorie", 20},
	{"Sous-catégorie", 20},
	{"Montant HT", 12},
	{"TVA", 12},
	{"Remise", 12},
	{"Montant TTC", 12},
	{"Statut", 15},
	{"Date création", 15},
	{"Date envoi", 15},
	{"Date expiration", 15},
	{"Notes", 30},
}

// row renders q in column order.
func row(q quote.Quote) []string {
	return []string{
		q.QuoteNumber,
		q.ClientDisplayName(),
		orNA(q.Email()),
		orNA(q.Phone()),
		orNA(q.ProjectTypeLabel()),
		refName(q.MainCategory),
		refName(q.SubCategory),
		money(q.TotalPrice),
		money(q.TaxAmount),
		q.DiscountDescription(),
		money(q.GrossTotal()),
		quote.StatusLabel(q.Status),
		format.DateString(q.CreatedAt),
		format.DateString(q.SentOn()),
		format.DateString(q.ExpiresOn()),
		q.Notes,
	}
}

// Write stores a under dir and returns the full path.
func Write(dir string, a Artifact) (string, error) {
	if a.Filename == "" {
		return "", fmt.Errorf("export: write: empty filename")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, config.FileModeDir); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Data, config.FileModeFile); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}
