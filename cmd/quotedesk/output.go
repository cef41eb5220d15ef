/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/spf13/cobra"
)

func logger() logging.Logger {
	return logging.With("component", "cli")
}

func contextOf(c *cobra.Command) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseID parses a positive quote id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid quote id %q", arg)
	}
	return id, nil
}

// parseIDs accepts ids as separate arguments or comma separated.
func parseIDs(args []string) ([]int, error) {
	var ids []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one quote id is required")
	}
	return ids, nil
}

func outputStyle() (format.Style, error) {
	return format.ParseStyle(cmd.OutputFormat())
}

func quoteColumns() []format.Column[quote.Quote] {
	return []format.Column[quote.Quote]{
		{Name: "ID", Width: 5, Alignment: "right", Value: func(q quote.Quote) string { return strconv.Itoa(q.ID) }},
		{Name: "N° DEVIS", Width: 14, Value: func(q quote.Quote) string { return q.QuoteNumber }},
		{Name: "CLIENT", Width: 24, Value: func(q quote.Quote) string { return q.ClientDisplayName() }},
		{Name: "STATUT", Width: 10, Value: func(q quote.Quote) string { return q.Status.Label() }},
		{Name: "TOTAL TTC", Width: 14, Alignment: "right", Value: func(q quote.Quote) string { return format.Euros(q.GrossTotal().Float()) }},
		{Name: "CRÉÉ LE", Width: 10, Value: func(q quote.Quote) string { return format.DateString(q.CreatedAt) }},
		{Name: "PROJET", Width: 20, Value: func(q quote.Quote) string { return q.ProjectTypeLabel() }},
	}
}

func compactQuote(q quote.Quote) string {
	return fmt.Sprintf("%d %s %s %s %s", q.ID, q.QuoteNumber, q.Status, format.Euros(q.GrossTotal().Float()), q.ClientDisplayName())
}

// printQuotes writes quotes in the selected output style.
func printQuotes(w io.Writer, quotes []quote.Quote, style format.Style) error {
	switch style {
	case format.StyleJSON:
		if quotes == nil {
			quotes = []quote.Quote{}
		}
		return format.WriteJSON(w, quotes)
	case format.StyleCompact:
		return format.WriteCompact(w, quotes, compactQuote)
	}
	if len(quotes) == 0 {
		_, err := fmt.Fprintln(w, "Aucun devis trouvé")
		return err
	}
	table := format.NewTable(quoteColumns()...)
	table.Config = format.TableConfigFor(config.Get("table_format", "default"))
	return table.Render(quotes, w)
}

// printQuoteDetail writes one quote with its lines.
func printQuoteDetail(w io.Writer, q quote.Quote) error {
	fields := []struct{ label, value string }{
		{"Devis", q.QuoteNumber},
		{"Statut", q.Status.Label()},
		{"Client", q.ClientDisplayName()},
		{"Email", orNA(q.Email())},
		{"Téléphone", orNA(format.Phone(q.Phone()))},
		{"Adresse", orNA(q.Address())},
		{"Projet", q.ProjectTypeLabel()},
		{"Créé le", format.DateString(q.CreatedAt)},
		{"Envoyé le", format.DateString(q.SentOn())},
		{"Expire le", format.DateString(q.ExpiresOn())},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-11s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}
	if len(q.Items) > 0 {
		items := format.NewTable(
			format.Column[quote.Item]{Name: "DÉSIGNATION", Width: 36, Value: func(i quote.Item) string { return i.Description }},
			format.Column[quote.Item]{Name: "QTÉ", Width: 6, Alignment: "right", Value: func(i quote.Item) string { return format.Number(i.Quantity.Float()) }},
			format.Column[quote.Item]{Name: "PU HT", Width: 14, Alignment: "right", Value: func(i quote.Item) string { return format.Euros(i.UnitPrice.Float()) }},
			format.Column[quote.Item]{Name: "TOTAL HT", Width: 14, Alignment: "right", Value: func(i quote.Item) string { return format.Euros(i.TotalPrice.Float()) }},
		)
		items.Config = format.TableConfigFor(config.Get("table_format", "default"))
		fmt.Fprintln(w)
		if err := items.Render(q.Items, w); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	if d := q.DiscountDescription(); d != "" {
		fmt.Fprintf(w, "%-11s %s (-%s)\n", "Remise:", d, format.Euros(q.DiscountAmount()))
	}
	fmt.Fprintf(w, "%-11s %s\n", "Total HT:", format.Euros(q.TotalPrice.Float()))
	fmt.Fprintf(w, "%-11s %s\n", "TVA:", format.Euros(q.TaxAmount.Float()))
	_, err := fmt.Fprintf(w, "%-11s %s\n", "Total TTC:", format.Euros(q.GrossTotal().Float()))
	return err
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return format.NA
	}
	return s
}

// prompt reads one line from in after writing label to out.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; only y, yes, o and oui accept.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	answer, err := prompt(in, out, question+" [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "o", "oui":
		return true
	}
	return false
}
