package quote

// ProjectType is a priced project category.
type ProjectType struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BasePrice   Decimal `json:"base_price"`
	IsActive    bool    `json:"is_active"`
}

// DesignOption adds a flat supplement to the base price.
type DesignOption struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	PriceSupplement Decimal `json:"price_supplement"`
	IsActive        bool    `json:"is_active"`
}

// ComplexityLevel scales base price plus design supplement.
type ComplexityLevel struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	PriceMultiplier Decimal `json:"price_multiplier"`
	IsActive        bool    `json:"is_active"`
}

// SupplementaryOption is a flat add-on.
type SupplementaryOption struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       Decimal `json:"price"`
	IsActive    bool    `json:"is_active"`
}

// Tables groups the four reference price tables.
type Tables struct {
	ProjectTypes         []ProjectType         `json:"project_types"`
	DesignOptions        []DesignOption        `json:"design_options"`
	ComplexityLevels     []ComplexityLevel     `json:"complexity_levels"`
	SupplementaryOptions []SupplementaryOption `json:"supplementary_options"`
}

// Selection is what the user picked in the quote form. Zero ids mean
// "not selected yet".
type Selection struct {
	ProjectType          int   `json:"project_type"`
	DesignOption         int   `json:"design_option"`
	ComplexityLevel      int   `json:"complexity_level"`
	SupplementaryOptions []int `json:"supplementary_options"`
}

// SelectionOf extracts the priced selection from a quote record.
func SelectionOf(q Quote) Selection {
	sel := Selection{SupplementaryOptions: q.SupplementaryIDs()}
	if q.ProjectType != nil {
		sel.ProjectType = q.ProjectType.ID
	}
	if q.DesignOption != nil {
		sel.DesignOption = q.DesignOption.ID
	}
	if q.ComplexityLevel != nil {
		sel.ComplexityLevel = q.ComplexityLevel.ID
	}
	return sel
}
