// Package pricing computes the client-side quote price preview.
package pricing

import (
	"math"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// Resolved holds the reference entries a selection points at.
type Resolved struct {
	ProjectType     *quote.ProjectType
	DesignOption    *quote.DesignOption
	ComplexityLevel *quote.ComplexityLevel
	Options         []quote.SupplementaryOption
}

// Complete reports whether the three required selections were found.
func (r Resolved) Complete() bool {
	return r.ProjectType != nil && r.DesignOption != nil && r.ComplexityLevel != nil
}

// Resolve looks up every id of sel in tables. Unknown supplementary option
// ids are skipped.
func Resolve(sel quote.Selection, tables quote.Tables) Resolved {
	var r Resolved
	for i := range tables.ProjectTypes {
		if tables.ProjectTypes[i].ID == sel.ProjectType {
			r.ProjectType = &tables.ProjectTypes[i]
			break
		}
	}
	for i := range tables.DesignOptions {
		if tables.DesignOptions[i].ID == sel.DesignOption {
			r.DesignOption = &tables.DesignOptions[i]
			break
		}
	}
	for i := range tables.ComplexityLevels {
		if tables.ComplexityLevels[i].ID == sel.ComplexityLevel {
			r.ComplexityLevel = &tables.ComplexityLevels[i]
			break
		}
	}
	for _, id := range sel.SupplementaryOptions {
		for _, opt := range tables.SupplementaryOptions {
			if opt.ID == id {
				r.Options = append(r.Options, opt)
				break
			}
		}
	}
	return r
}

// Total returns round((base + supplement) * multiplier + sum(options)), or 0
// when the project type, design option or complexity level is unresolved.
func Total(sel quote.Selection, tables quote.Tables) float64 {
	return TotalOf(Resolve(sel, tables))
}

// TotalOf prices an already resolved selection.
func TotalOf(r Resolved) float64 {
	if !r.Complete() {
		return 0
	}
	total := (r.ProjectType.BasePrice.Float() + r.DesignOption.PriceSupplement.Float()) * r.ComplexityLevel.PriceMultiplier.Float()
	for _, opt := range r.Options {
		total += opt.Price.Float()
	}
	return roundHalfUp(total)
}

// WithTax returns the total including VAT at rate, rounded to cents.
func WithTax(total, rate float64) float64 {
	return math.Round(total*(1+rate)*100) / 100
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}
