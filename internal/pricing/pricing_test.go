package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quotedesk/quotedesk/internal/quote"
)

func tables() quote.Tables {
	return quote.Tables{
		ProjectTypes:         []quote.ProjectType{{ID: 1, Name: "Site vitrine", BasePrice: 500}, {ID: 2, Name: "E-commerce", BasePrice: 1999.99}},
		DesignOptions:        []quote.DesignOption{{ID: 1, Name: "Template", PriceSupplement: 100}, {ID: 2, Name: "Sur mesure", PriceSupplement: 0}},
		ComplexityLevels:     []quote.ComplexityLevel{{ID: 1, Name: "Simple", PriceMultiplier: 1}, {ID: 2, Name: "Avancé", PriceMultiplier: 1.5}},
		SupplementaryOptions: []quote.SupplementaryOption{{ID: 1, Name: "SEO", Price: 50}, {ID: 2, Name: "Blog", Price: 30}, {ID: 3, Name: "Maintenance", Price: 0.25}},
	}
}

func TestTotalMatchesFormula(t *testing.T) {
	sel := quote.Selection{ProjectType: 1, DesignOption: 1, ComplexityLevel: 2, SupplementaryOptions: []int{1, 2}}
	assert.Equal(t, 980.0, Total(sel, tables()))
}

func TestTotalWithoutOptions(t *testing.T) {
	sel := quote.Selection{ProjectType: 1, DesignOption: 2, ComplexityLevel: 1}
	assert.Equal(t, 500.0, Total(sel, tables()))
}

func TestTotalRounding(t *testing.T) {
	// 1999.99 * 1 + 0.25 = 2000.24
	sel := quote.Selection{ProjectType: 2, DesignOption: 2, ComplexityLevel: 1, SupplementaryOptions: []int{3}}
	assert.Equal(t, 2000.0, Total(sel, tables()))

	// 1999.99 * 1.5 = 2999.985
	sel = quote.Selection{ProjectType: 2, DesignOption: 2, ComplexityLevel: 2}
	assert.Equal(t, 3000.0, Total(sel, tables()))

	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, 2.0, roundHalfUp(2.49))
	assert.Equal(t, -2.0, roundHalfUp(-2.5))
}

func TestTotalUnresolvedIsZero(t *testing.T) {
	cases := map[string]quote.Selection{
		"no project type":     {DesignOption: 1, ComplexityLevel: 1},
		"unknown design":      {ProjectType: 1, DesignOption: 9, ComplexityLevel: 1},
		"no complexity level": {ProjectType: 1, DesignOption: 1, SupplementaryOptions: []int{1}},
		"empty":               {},
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0.0, Total(sel, tables()))
		})
	}
}

func TestResolveSkipsUnknownOptions(t *testing.T) {
	r := Resolve(quote.Selection{ProjectType: 1, DesignOption: 1, ComplexityLevel: 1, SupplementaryOptions: []int{2, 42}}, tables())
	assert.True(t, r.Complete())
	assert.Len(t, r.Options, 1)
	assert.Equal(t, "Blog", r.Options[0].Name)
	assert.Equal(t, 630.0, TotalOf(r))
}

func TestWithTax(t *testing.T) {
	assert.Equal(t, 1176.0, WithTax(980, quote.DefaultTaxRate))
	assert.Equal(t, 12.35, WithTax(10.29, quote.DefaultTaxRate))
}
