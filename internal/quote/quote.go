// Package quote holds the quote domain model shared by the API client,
// the exports and the admin console.
package quote

import (
	"bytes"
	"encoding/json"
)

// Ref is a related record the backend renders either as a bare id or as an
// object with at least an id and a name.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// UnmarshalJSON accepts 3, "3" or {"id":3,"name":"..."}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case data[0] == '{':
		type plain Ref
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = Ref(p)
		return nil
	default:
		var id json.Number
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&id); err != nil {
			var s string
			if err := json.Unmarshal(data, &s); err != nil {
				return err
			}
			id = json.Number(s)
		}
		n, err := id.Int64()
		if err != nil {
			return err
		}
		*r = Ref{ID: int(n)}
		return nil
	}
}

// User is an account as returned by the profile endpoint.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	IsStaff     bool   `json:"is_staff,omitempty"`
}

// FullName returns "first last" when both parts are set.
func (u User) FullName() string {
	if u.FirstName == "" || u.LastName == "" {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

// Client is the customer a quote is addressed to.
type Client struct {
	ID      int    `json:"id,omitempty"`
	User    *User  `json:"user,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Item is one line of a detailed quote.
type Item struct {
	Description string  `json:"description"`
	Quantity    Decimal `json:"quantity"`
	UnitPrice   Decimal `json:"unit_price"`
	TotalPrice  Decimal `json:"total_price"`
}

// Quote is a backend quote record. List and detail endpoints fill different
// subsets of the fields.
type Quote struct {
	ID          int    `json:"id"`
	QuoteNumber string `json:"quote_number"`

	Client        *Client `json:"client,omitempty"`
	ClientName    string  `json:"client_name,omitempty"`
	ClientEmail   string  `json:"client_email,omitempty"`
	ClientPhone   string  `json:"client_phone,omitempty"`
	ClientAddress string  `json:"client_address,omitempty"`
	CompanyName   string  `json:"company_name,omitempty"`

	ProjectType          *Ref   `json:"project_type,omitempty"`
	ProjectTypeName      string `json:"project_type_name,omitempty"`
	MainCategory         *Ref   `json:"main_category,omitempty"`
	SubCategory          *Ref   `json:"sub_category,omitempty"`
	DesignOption         *Ref   `json:"design_option,omitempty"`
	ComplexityLevel      *Ref   `json:"complexity_level,omitempty"`
	SupplementaryOptions []Ref  `json:"supplementary_options,omitempty"`
	ProjectDescription   string `json:"project_description,omitempty"`

	DiscountType      DiscountType `json:"discount_type,omitempty"`
	DiscountValue     Decimal      `json:"discount_value,omitempty"`
	TotalPrice        Decimal      `json:"total_price,omitempty"`
	TaxAmount         Decimal      `json:"tax_amount,omitempty"`
	TotalPriceWithTax Decimal      `json:"total_price_with_tax,omitempty"`
	TotalTTC          Decimal      `json:"total_ttc,omitempty"`

	Status         Status `json:"status"`
	StatusDisplay  string `json:"status_display,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Items          []Item `json:"quote_items,omitempty"`
	SignatureToken string `json:"signature_token,omitempty"`
	IsExpired      bool   `json:"is_expired,omitempty"`

	CreatedAt  string `json:"created_at,omitempty"`
	SentDate   string `json:"sent_date,omitempty"`
	SentAt     string `json:"sent_at,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

func (q Quote) user() *User {
	if q.Client == nil {
		return nil
	}
	return q.Client.User
}

// ClientDisplayName is "first last" when both are known, else the client's
// email, else the flat client_name, else "N/A".
func (q Quote) ClientDisplayName() string {
	if u := q.user(); u != nil {
		if name := u.FullName(); name != "" {
			return name
		}
		if u.Email != "" {
			return u.Email
		}
	}
	if q.ClientName != "" {
		return q.ClientName
	}
	return "N/A"
}

// Email returns the client email from the nested user or the flat field.
func (q Quote) Email() string {
	if u := q.user(); u != nil && u.Email != "" {
		return u.Email
	}
	return q.ClientEmail
}

// Phone returns the client phone from the nested client or the flat field.
func (q Quote) Phone() string {
	if q.Client != nil && q.Client.Phone != "" {
		return q.Client.Phone
	}
	return q.ClientPhone
}

// Address returns the client postal address.
func (q Quote) Address() string {
	if q.Client != nil && q.Client.Address != "" {
		return q.Client.Address
	}
	return q.ClientAddress
}

// ProjectTypeLabel returns the project type name from the relation or the flat field.
func (q Quote) ProjectTypeLabel() string {
	if q.ProjectType != nil && q.ProjectType.Name != "" {
		return q.ProjectType.Name
	}
	return q.ProjectTypeName
}

// GrossTotal is total_price_with_tax, falling back to total_ttc.
func (q Quote) GrossTotal() Decimal {
	if q.TotalPriceWithTax != 0 {
		return q.TotalPriceWithTax
	}
	return q.TotalTTC
}

// SentOn is the sent date, whichever field the backend used.
func (q Quote) SentOn() string {
	if q.SentDate != "" {
		return q.SentDate
	}
	return q.SentAt
}

// ExpiresOn is the expiry date, whichever field the backend used.
func (q Quote) ExpiresOn() string {
	if q.ExpiryDate != "" {
		return q.ExpiryDate
	}
	return q.ExpiresAt
}

// DiscountDescription renders the discount as "10%", "50 €" or "N/A".
func (q Quote) DiscountDescription() string {
	switch q.DiscountType {
	case DiscountPercent:
		return q.DiscountValue.String() + "%"
	case DiscountFixed:
		return q.DiscountValue.String() + " €"
	default:
		return "N/A"
	}
}

// DiscountAmount is the amount taken off the subtotal: a share of
// total_price for percent discounts, the value itself for fixed ones.
func (q Quote) DiscountAmount() float64 {
	if q.DiscountValue <= 0 {
		return 0
	}
	if q.DiscountType == DiscountPercent {
		return q.TotalPrice.Float() * q.DiscountValue.Float() / 100
	}
	return q.DiscountValue.Float()
}

// SupplementaryIDs returns the ids of the selected supplementary options.
func (q Quote) SupplementaryIDs() []int {
	ids := make([]int, 0, len(q.SupplementaryOptions))
	for _, r := range q.SupplementaryOptions {
		ids = append(ids, r.ID)
	}
	return ids
}
