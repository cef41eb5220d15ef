package quote

// Statistics summarizes a quote collection for reports.
type Statistics struct {
	Total           int     `json:"total"`
	Draft           int     `json:"draft"`
	Sent            int     `json:"sent"`
	Viewed          int     `json:"viewed"`
	Accepted        int     `json:"accepted"`
	Rejected        int     `json:"rejected"`
	Expired         int     `json:"expired"`
	AcceptedRevenue float64 `json:"accepted_revenue"`
	PendingRevenue  float64 `json:"pending_revenue"`
}

// Count returns the number of quotes in status s.
func (s Statistics) Count(status Status) int {
	switch status {
	case StatusDraft:
		return s.Draft
	case StatusSent:
		return s.Sent
	case StatusViewed:
		return s.Viewed
	case StatusAccepted:
		return s.Accepted
	case StatusRejected:
		return s.Rejected
	case StatusExpired:
		return s.Expired
	}
	return 0
}

// ComputeStatistics counts quotes per status. Accepted revenue sums the net
// total of accepted quotes; pending revenue sums sent and viewed ones.
func ComputeStatistics(quotes []Quote) Statistics {
	st := Statistics{Total: len(quotes)}
	for _, q := range quotes {
		switch q.Status {
		case StatusDraft:
			st.Draft++
		case StatusSent:
			st.Sent++
			st.PendingRevenue += q.TotalPrice.Float()
		case StatusViewed:
			st.Viewed++
			st.PendingRevenue += q.TotalPrice.Float()
		case StatusAccepted:
			st.Accepted++
			st.AcceptedRevenue += q.TotalPrice.Float()
		case StatusRejected:
			st.Rejected++
		case StatusExpired:
			st.Expired++
		}
	}
	return st
}

// MonthTotal is one bucket of the backend's monthly breakdown.
type MonthTotal struct {
	Month string  `json:"month"`
	Count int     `json:"count"`
	Total Decimal `json:"total"`
}

// ProjectTypeTotal is one row of the backend's top project types.
type ProjectTypeTotal struct {
	Name        string  `json:"project_type__name"`
	Count       int     `json:"count"`
	TotalAmount Decimal `json:"total_amount"`
}

// ServerStatistics is the payload of the statistics endpoint.
type ServerStatistics struct {
	TotalQuotes     int                `json:"total_quotes"`
	TotalAmount     Decimal            `json:"total_amount"`
	AverageAmount   Decimal            `json:"average_amount"`
	StatusBreakdown map[string]int     `json:"status_breakdown"`
	ConversionRate  Decimal            `json:"conversion_rate"`
	QuotesByMonth   []MonthTotal       `json:"quotes_by_month"`
	TopProjectTypes []ProjectTypeTotal `json:"top_project_types"`
}

// Summary converts the server payload to the report statistics shape.
// Revenue sums are not part of the server payload and stay zero.
func (s ServerStatistics) Summary() Statistics {
	b := s.StatusBreakdown
	return Statistics{
		Total:    s.TotalQuotes,
		Draft:    b[string(StatusDraft)],
		Sent:     b[string(StatusSent)],
		Viewed:   b[string(StatusViewed)],
		Accepted: b[string(StatusAccepted)],
		Rejected: b[string(StatusRejected)],
		Expired:  b[string(StatusExpired)],
	}
}
