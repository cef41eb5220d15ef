/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/spf13/cobra"
)

// refRow is one reference table entry as printed by refs.
type refRow struct {
	ID     int
	Name   string
	Price  string
	Active bool
}

// NewRefsCmd creates the refs command.
func NewRefsCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewRefsCmd: provider dependency cannot be nil")
	}
	var refresh bool
	c := &cobra.Command{
		Use:   "refs",
		Short: "Show the reference price tables",
		Long: `Show the project types, design options, complexity levels and
supplementary options used to price quotes. The tables are cached locally
for reference_ttl; --refresh fetches them again.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			style, err := outputStyle()
			if err != nil {
				return err
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			tables, err := loadTables(ctx, rt, refresh)
			if err != nil {
				return cmd.Reported(err)
			}
			w := c.OutOrStdout()
			if style == format.StyleJSON {
				return format.WriteJSON(w, tables)
			}
			for i, section := range refSections(tables) {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := printRefSection(w, section.title, section.rows); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().BoolVar(&refresh, "refresh", false, "Ignore the cached tables")
	return c
}

type refSection struct {
	title string
	rows  []refRow
}

func refSections(t quote.Tables) []refSection {
	sections := make([]refSection, 4)
	sections[0].title = "Types de projet"
	for _, p := range t.ProjectTypes {
		sections[0].rows = append(sections[0].rows, refRow{p.ID, p.Name, format.Euros(p.BasePrice.Float()), p.IsActive})
	}
	sections[1].title = "Options de design"
	for _, d := range t.DesignOptions {
		sections[1].rows = append(sections[1].rows, refRow{d.ID, d.Name, "+" + format.Euros(d.PriceSupplement.Float()), d.IsActive})
	}
	sections[2].title = "Niveaux de complexité"
	for _, l := range t.ComplexityLevels {
		sections[2].rows = append(sections[2].rows, refRow{l.ID, l.Name, "x" + format.Number(l.PriceMultiplier.Float()), l.IsActive})
	}
	sections[3].title = "Options supplémentaires"
	for _, o := range t.SupplementaryOptions {
		sections[3].rows = append(sections[3].rows, refRow{o.ID, o.Name, "+" + format.Euros(o.Price.Float()), o.IsActive})
	}
	return sections
}

func printRefSection(w io.Writer, title string, rows []refRow) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "  "+format.NA)
		return err
	}
	table := format.NewTable(
		format.Column[refRow]{Name: "ID", Width: 4, Alignment: "right", Value: func(r refRow) string { return strconv.Itoa(r.ID) }},
		format.Column[refRow]{Name: "NOM", Width: 28, Value: func(r refRow) string { return r.Name }},
		format.Column[refRow]{Name: "PRIX", Width: 14, Alignment: "right", Value: func(r refRow) string { return r.Price }},
		format.Column[refRow]{Name: "ACTIF", Width: 5, Value: func(r refRow) string {
			if r.Active {
				return "oui"
			}
			return "non"
		}},
	)
	return table.Render(rows, w)
}

func init() {
	cmd.RootCmd.AddCommand(NewRefsCmd(deps.env))
}
