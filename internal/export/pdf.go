package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/quote"
)

const (
	font      = "Helvetica"
	margin    = 14.0
	rowHeight = 7.0
)

var accent = [3]int{37, 99, 235}

// doc wraps fpdf with a cp1252 translator so accents and € render with the
// core fonts.
type doc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newDoc(orientation string) *doc {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(margin, 20, margin)
	pdf.SetAutoPageBreak(true, 18)
	return &doc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *doc) width() float64 {
	w, _ := d.GetPageSize()
	return w
}

func (d *doc) centered(size float64, style string, rgb [3]int, text string) {
	d.SetFont(font, style, size)
	d.SetTextColor(rgb[0], rgb[1], rgb[2])
	d.CellFormat(0, size*0.5, d.tr(text), "", 1, "C", false, 0, "")
}

func (d *doc) heading(text string) {
	d.SetFont(font, "B", 14)
	d.SetTextColor(0, 0, 0)
	d.CellFormat(0, 9, d.tr(text), "", 1, "L", false, 0, "")
}

// fit shortens s with "..." until it fits in w.
func (d *doc) fit(s string, w float64) string {
	s = d.tr(s)
	limit := w - 2
	if d.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && d.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

type tableStyle struct {
	widths  []float64
	aligns  []string
	striped bool
	size    float64
}

func (d *doc) tableHeader(cols []string, st tableStyle) {
	d.SetFont(font, "B", st.size)
	d.SetFillColor(accent[0], accent[1], accent[2])
	d.SetTextColor(255, 255, 255)
	d.SetDrawColor(200, 200, 200)
	for i, c := range cols {
		d.CellFormat(st.widths[i], rowHeight, d.fit(c, st.widths[i]), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)
}

// table draws a header and rows, repeating the header after each page break.
func (d *doc) table(cols []string, rows [][]string, st tableStyle) {
	_, pageH := d.GetPageSize()
	_, _, _, bottom := d.GetMargins()
	d.tableHeader(cols, st)
	for n, r := range rows {
		if d.GetY()+rowHeight > pageH-bottom {
			d.AddPage()
			d.tableHeader(cols, st)
		}
		d.SetFont(font, "", st.size)
		d.SetTextColor(0, 0, 0)
		fill := st.striped && n%2 == 1
		if fill {
			d.SetFillColor(245, 245, 245)
		}
		for i, cell := range r {
			align := "L"
			if i < len(st.aligns) && st.aligns[i] != "" {
				align = st.aligns[i]
			}
			d.CellFormat(st.widths[i], rowHeight, d.fit(cell, st.widths[i]), "1", 0, align, fill, 0, "")
		}
		d.Ln(-1)
	}
}

func (d *doc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func statsRows(stats quote.Statistics, fallbackTotal int) [][]string {
	total := stats.Total
	if total == 0 {
		total = fallbackTotal
	}
	return [][]string{
		{"Total des devis", fmt.Sprint(total)},
		{"Brouillons", fmt.Sprint(stats.Draft)},
		{"Envoyés", fmt.Sprint(stats.Sent)},
		{"Consultés", fmt.Sprint(stats.Viewed)},
		{"Acceptés", fmt.Sprint(stats.Accepted)},
		{"Refusés", fmt.Sprint(stats.Rejected)},
		{"Expirés", fmt.Sprint(stats.Expired)},
		{"CA Réalisé", format.Euros(stats.AcceptedRevenue)},
		{"CA En attente", format.Euros(stats.PendingRevenue)},
	}
}

var reportColumns = []string{"N° Devis", "Client", "Type Projet", "HT", "TTC", "Statut", "Date"}

var reportStyle = tableStyle{
	widths:  []float64{25, 45, 50, 25, 25, 30, 25},
	aligns:  []string{"", "", "", "R", "R", "C", "C"},
	striped: true,
	size:    8,
}

// PDFReport renders a landscape list report with an optional statistics
// table. ok is false, with no artifact, when quotes is empty.
func PDFReport(quotes []quote.Quote, stats *quote.Statistics, name string, now time.Time) (Artifact, bool, error) {
	if len(quotes) == 0 {
		return Artifact{}, false, nil
	}

	d := newDoc("L")
	d.SetTitle("Rapport des Devis", true)
	d.SetCreationDate(now)
	d.SetFooterFunc(func() {
		d.SetY(-12)
		d.SetFont(font, "", 8)
		d.SetTextColor(150, 150, 150)
		d.CellFormat(0, 5, fmt.Sprintf("Page %d", d.PageNo()), "", 0, "C", false, 0, "")
	})
	d.AddPage()

	d.centered(20, "", accent, "Rapport des Devis")
	d.Ln(2)
	d.centered(10, "", [3]int{100, 100, 100},
		fmt.Sprintf("Généré le %s à %s", now.Format("02/01/2006"), now.Format("15:04:05")))
	d.Ln(6)

	if stats != nil {
		d.heading("Statistiques")
		half := (d.width() - 2*margin) / 2
		d.table([]string{"Indicateur", "Valeur"}, statsRows(*stats, len(quotes)), tableStyle{
			widths: []float64{half, half},
			size:   9,
		})
		d.Ln(8)
	}

	d.heading("Liste des Devis")
	rows := make([][]string, len(quotes))
	for i, q := range quotes {
		rows[i] = []string{
			orNA(q.QuoteNumber),
			q.ClientDisplayName(),
			orNA(q.ProjectTypeLabel()),
			money(q.TotalPrice),
			money(q.GrossTotal()),
			quote.StatusLabel(q.Status),
			format.DateString(q.CreatedAt),
		}
	}
	d.table(reportColumns, rows, reportStyle)

	data, err := d.bytes()
	if err != nil {
		return Artifact{}, false, err
	}
	return Artifact{
		Filename:    stamped(name, DefaultReportName, ".pdf", now),
		ContentType: ContentTypePDF,
		Data:        data,
		Pages:       d.PageCount(),
	}, true, nil
}

// DetailFilename is the file name QuoteDetail uses for q.
func DetailFilename(q quote.Quote) string {
	n := q.QuoteNumber
	if n == "" {
		n = "detail"
	}
	return "devis_" + n + ".pdf"
}

// QuoteDetail renders a portrait document for a single quote.
func QuoteDetail(q quote.Quote) (Artifact, error) {
	d := newDoc("P")
	d.SetTitle("Devis "+q.QuoteNumber, true)
	d.AddPage()
	pageW := d.width()

	d.centered(24, "B", accent, "DEVIS")
	d.Ln(4)
	d.centered(12, "", [3]int{0, 0, 0}, "N° "+orNA(q.QuoteNumber))
	d.Ln(6)

	line := func(label, value string) {
		d.SetFont(font, "", 10)
		d.SetTextColor(0, 0, 0)
		d.CellFormat(0, 6, d.tr(label+": "+value), "", 1, "L", false, 0, "")
	}

	d.heading("Client")
	line("Nom", q.ClientDisplayName())
	line("Email", orNA(q.Email()))
	line("Téléphone", orNA(q.Phone()))
	line("Adresse", orNA(q.Address()))
	d.Ln(6)

	d.heading("Projet")
	line("Type", orNA(q.ProjectTypeLabel()))
	line("Catégorie", refName(q.MainCategory))
	if q.SubCategory != nil && q.SubCategory.Name != "" {
		line("Sous-catégorie", q.SubCategory.Name)
	}
	d.Ln(6)

	if len(q.Items) > 0 {
		d.heading("Détails")
		rows := make([][]string, len(q.Items))
		for i, it := range q.Items {
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			rows[i] = []string{orNA(it.Description), qty.String(), money(it.UnitPrice), money(it.TotalPrice)}
		}
		inner := pageW - 2*margin
		d.table([]string{"Description", "Quantité", "Prix unitaire", "Total"}, rows, tableStyle{
			widths: []float64{inner - 90, 25, 35, 30},
			aligns: []string{"", "C", "R", "R"},
			size:   9,
		})
		d.Ln(6)
	}

	totalsX := pageW - 70
	total := func(size float64, style, label, value string) {
		d.SetFont(font, style, size)
		d.SetX(totalsX)
		d.CellFormat(30, 7, d.tr(label), "", 0, "L", false, 0, "")
		d.CellFormat(26, 7, d.tr(value), "", 1, "R", false, 0, "")
	}
	total(12, "", "Sous-total HT:", money(q.TotalPrice))
	if amount := q.DiscountAmount(); amount > 0 {
		label := "Remise:"
		if q.DiscountType == quote.DiscountPercent {
			label = fmt.Sprintf("Remise (%s%%):", q.DiscountValue.String())
		}
		total(12, "", label, "-"+format.Euros(amount))
	}
	total(12, "", fmt.Sprintf("TVA (%d%%):", int(quote.DefaultTaxRate*100)), money(q.TaxAmount))
	d.Ln(3)
	total(14, "B", "Total TTC:", money(q.GrossTotal()))
	d.Ln(8)

	if notes := strings.TrimSpace(q.Notes); notes != "" {
		d.SetFont(font, "", 10)
		d.CellFormat(0, 6, "Notes:", "", 1, "L", false, 0, "")
		d.MultiCell(pageW-2*margin, 5, d.tr(notes), "", "L", false)
	}

	data, err := d.bytes()
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Filename:    DetailFilename(q),
		ContentType: ContentTypePDF,
		Data:        data,
		Pages:       d.PageCount(),
	}, nil
}
