/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/quotedesk/quotedesk/cmd"
	"github.com/quotedesk/quotedesk/internal/admin"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/format"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/pricing"
	"github.com/quotedesk/quotedesk/internal/quote"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

// NewQuotesCmd creates the quotes command and its subcommands.
func NewQuotesCmd(provide provider) *cobra.Command {
	if provide == nil {
		panic("NewQuotesCmd: provider dependency cannot be nil")
	}
	c := &cobra.Command{
		Use:   "quotes",
		Short: "List, price and manage quotes",
		Long: `List, price and manage quotes.

Actions that change a quote print a notification and reload the list.
Bulk and delete actions ask for confirmation unless --yes is given.`,
	}
	c.AddCommand(
		newQuotesListCmd(provide),
		newQuotesShowCmd(provide),
		newQuotesPriceCmd(provide),
		newQuotesSendCmd(provide),
		newQuotesBulkSendCmd(provide),
		newQuotesDuplicateCmd(provide),
		newQuotesRejectCmd(provide),
		newQuotesDeleteCmd(provide),
		newQuotesBulkDeleteCmd(provide),
		newQuotesStatsCmd(provide),
		newQuotesPDFCmd(provide),
		newQuotesExportCmd(provide),
	)
	return c
}

// quoteFilter holds the flags shared by list and export.
type quoteFilter struct {
	status string
	search string
	mine   bool
}

func (f *quoteFilter) bind(c *cobra.Command) {
	c.Flags().StringVarP(&f.status, "status", "s", "", "Filter by status: draft, sent, viewed, accepted, rejected, expired")
	c.Flags().StringVar(&f.search, "search", "", "Filter by number, client, email or project type")
	c.Flags().BoolVar(&f.mine, "mine", false, "Only the quotes of the signed-in client")
}

func (f *quoteFilter) parsedStatus() (quote.Status, error) {
	if f.status == "" {
		return "", nil
	}
	st, ok := quote.ParseStatus(f.status)
	if !ok {
		return "", fmt.Errorf("invalid status %q", f.status)
	}
	return st, nil
}

// load fetches quotes and applies the filter through a listing controller.
func (f *quoteFilter) load(ctx context.Context, rt *appEnv, opts ...listing.Option) (*listing.Controller, error) {
	status, err := f.parsedStatus()
	if err != nil {
		return nil, err
	}
	quotes, err := facade.Get(ctx, rt.facade, func(ctx context.Context) ([]quote.Quote, error) {
		if f.mine {
			return rt.backend.MyQuotes(ctx)
		}
		return rt.backend.ListQuotes(ctx, status)
	}, facade.Options{ErrorMessage: admin.MsgLoadFailed})
	if err != nil {
		return nil, cmd.Reported(err)
	}
	list := listing.NewFromConfig(opts...)
	list.SetQuotes(quotes)
	list.SetStatus(status)
	list.SetSearch(f.search)
	return list, nil
}

func newQuotesListCmd(provide provider) *cobra.Command {
	var (
		filter   quoteFilter
		page     int
		pageSize int
		all      bool
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		Args:  cobra.NoArgs,
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
			var opts []listing.Option
			if pageSize > 0 {
				opts = append(opts, listing.WithPageSize(pageSize))
			}
			list, err := filter.load(ctx, rt, opts...)
			if err != nil {
				return err
			}

			var rows []quote.Quote
			switch {
			case all:
				rows = list.Filtered()
			case page != 1 && !list.GoToPage(page):
				return fmt.Errorf("page %d out of range (1-%d)", page, max(list.TotalPages(), 1))
			default:
				rows = list.Page()
			}
			w := c.OutOrStdout()
			if err := printQuotes(w, rows, style); err != nil {
				return err
			}
			if style == format.StyleTable && !all && len(rows) > 0 {
				fmt.Fprintf(w, "\nPage %d/%d  |  %d devis\n", list.CurrentPage(), max(list.TotalPages(), 1), len(list.Filtered()))
			}
			return nil
		},
	}
	filter.bind(c)
	c.Flags().IntVar(&page, "page", 1, "Page to show")
	c.Flags().IntVar(&pageSize, "page-size", 0, "Quotes per page (default from page_size)")
	c.Flags().BoolVarP(&all, "all", "a", false, "Show every matching quote without paging")
	return c
}

func newQuotesShowCmd(provide provider) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one quote with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			style, err := outputStyle()
			if err != nil {
				return err
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			q, err := fetchQuote(ctx, rt, id)
			if err != nil {
				return err
			}
			if style == format.StyleJSON {
				return format.WriteJSON(c.OutOrStdout(), q)
			}
			return printQuoteDetail(c.OutOrStdout(), q)
		},
	}
}

func fetchQuote(ctx context.Context, rt *appEnv, id int) (quote.Quote, error) {
	q, err := facade.Get(ctx, rt.facade, func(ctx context.Context) (quote.Quote, error) {
		return rt.backend.GetQuote(ctx, id)
	}, facade.Options{})
	if err != nil {
		return quote.Quote{}, cmd.Reported(err)
	}
	return q, nil
}

// priceBreakdown is the JSON shape of the price command.
type priceBreakdown struct {
	ProjectType     string   `json:"project_type"`
	DesignOption    string   `json:"design_option"`
	ComplexityLevel string   `json:"complexity_level"`
	Options         []string `json:"supplementary_options"`
	TotalHT         float64  `json:"total_ht"`
	TaxRate         float64  `json:"tax_rate"`
	TotalTTC        float64  `json:"total_ttc"`
}

func newQuotesPriceCmd(provide provider) *cobra.Command {
	var (
		sel     quote.Selection
		refresh bool
	)
	c := &cobra.Command{
		Use:   "price",
		Short: "Preview the price of a project selection",
		Long: `Preview the price of a project selection:

    round((base price + design supplement) x complexity multiplier + options)

The reference tables are cached locally for reference_ttl.`,
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
			r := pricing.Resolve(sel, tables)
			if !r.Complete() {
				return fmt.Errorf("project type, design option and complexity level must match existing entries (see refs)")
			}
			total := pricing.TotalOf(r)
			out := priceBreakdown{
				ProjectType:     r.ProjectType.Name,
				DesignOption:    r.DesignOption.Name,
				ComplexityLevel: r.ComplexityLevel.Name,
				Options:         []string{},
				TotalHT:         total,
				TaxRate:         quote.DefaultTaxRate,
				TotalTTC:        pricing.WithTax(total, quote.DefaultTaxRate),
			}
			for _, opt := range r.Options {
				out.Options = append(out.Options, opt.Name)
			}

			w := c.OutOrStdout()
			if style == format.StyleJSON {
				return format.WriteJSON(w, out)
			}
			fmt.Fprintf(w, "%-12s %s (%s)\n", "Projet:", out.ProjectType, format.Euros(r.ProjectType.BasePrice.Float()))
			fmt.Fprintf(w, "%-12s %s (+%s)\n", "Design:", out.DesignOption, format.Euros(r.DesignOption.PriceSupplement.Float()))
			fmt.Fprintf(w, "%-12s %s (x%s)\n", "Complexité:", out.ComplexityLevel, format.Number(r.ComplexityLevel.PriceMultiplier.Float()))
			for _, opt := range r.Options {
				fmt.Fprintf(w, "%-12s %s (+%s)\n", "Option:", opt.Name, format.Euros(opt.Price.Float()))
			}
			fmt.Fprintf(w, "%-12s %s\n", "Total HT:", format.Euros(out.TotalHT))
			fmt.Fprintf(w, "%-12s %s\n", "TVA:", format.Percentage(out.TaxRate*100, 0))
			fmt.Fprintf(w, "%-12s %s\n", "Total TTC:", format.Euros(out.TotalTTC))
			return nil
		},
	}
	c.Flags().IntVar(&sel.ProjectType, "project-type", 0, "Project type id (required)")
	c.Flags().IntVar(&sel.DesignOption, "design", 0, "Design option id (required)")
	c.Flags().IntVar(&sel.ComplexityLevel, "complexity", 0, "Complexity level id (required)")
	c.Flags().IntSliceVar(&sel.SupplementaryOptions, "option", nil, "Supplementary option id (repeatable)")
	c.Flags().BoolVar(&refresh, "refresh", false, "Ignore the cached reference tables")
	_ = c.MarkFlagRequired("project-type")
	_ = c.MarkFlagRequired("design")
	_ = c.MarkFlagRequired("complexity")
	return c
}

// singleAction builds a subcommand acting on one quote id.
func singleAction(provide provider, use, short string, run func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			return run(ctx, c, rt, id)
		},
	}
}

func newQuotesSendCmd(provide provider) *cobra.Command {
	return singleAction(provide, "send ID", "Email a quote to its client", func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error {
		_, err := rt.admin.Send(ctx, id)
		return cmd.Reported(err)
	})
}

func newQuotesDuplicateCmd(provide provider) *cobra.Command {
	return singleAction(provide, "duplicate ID", "Copy a quote into a new draft", func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error {
		q, err := rt.admin.Duplicate(ctx, id)
		if err != nil {
			return cmd.Reported(err)
		}
		fmt.Fprintf(c.OutOrStdout(), "%d %s\n", q.ID, q.QuoteNumber)
		return nil
	})
}

func newQuotesRejectCmd(provide provider) *cobra.Command {
	var reason string
	c := singleAction(provide, "reject ID", "Mark a quote rejected", func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error {
		return cmd.Reported(rt.admin.Reject(ctx, id, strings.TrimSpace(reason)))
	})
	c.Flags().StringVarP(&reason, "reason", "r", "", "Reason given to the client")
	return c
}

func newQuotesDeleteCmd(provide provider) *cobra.Command {
	var yes bool
	c := singleAction(provide, "delete ID", "Delete a quote", func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error {
		if !yes && !confirm(bufio.NewReader(c.InOrStdin()), c.OutOrStdout(), fmt.Sprintf("Supprimer le devis %d ?", id)) {
			return errAborted
		}
		return cmd.Reported(rt.admin.Delete(ctx, id))
	})
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return c
}

// bulkAction builds a subcommand acting on several quote ids after
// confirmation.
func bulkAction(provide provider, use, short, question string, run func(ctx context.Context, c *cobra.Command, rt *appEnv, ids []int) error) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			ids = slices.Compact(slices.Sorted(slices.Values(ids)))
			if !yes && !confirm(bufio.NewReader(c.InOrStdin()), c.OutOrStdout(), fmt.Sprintf(question, len(ids))) {
				return errAborted
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			return run(ctx, c, rt, ids)
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return c
}

func newQuotesBulkSendCmd(provide provider) *cobra.Command {
	return bulkAction(provide, "bulk-send ID...", "Email several quotes one after another", "Envoyer %d devis ?",
		func(ctx context.Context, c *cobra.Command, rt *appEnv, ids []int) error {
			res := rt.admin.BulkSend(ctx, ids)
			if res.Failed > 0 {
				return cmd.Reported(fmt.Errorf("%d of %d quotes could not be sent", res.Failed, len(ids)))
			}
			return nil
		})
}

func newQuotesBulkDeleteCmd(provide provider) *cobra.Command {
	return bulkAction(provide, "bulk-delete ID...", "Delete several quotes in one request", "Supprimer %d devis ?",
		func(ctx context.Context, c *cobra.Command, rt *appEnv, ids []int) error {
			_, err := rt.admin.BulkDelete(ctx, ids)
			return cmd.Reported(err)
		})
}

func newQuotesStatsCmd(provide provider) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard statistics",
		Args:  cobra.NoArgs,
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
			stats, err := facade.Get(ctx, rt.facade, rt.backend.Statistics, facade.Options{})
			if err != nil {
				return cmd.Reported(err)
			}
			w := c.OutOrStdout()
			if style == format.StyleJSON {
				return format.WriteJSON(w, stats)
			}
			fmt.Fprintf(w, "%-18s %d\n", "Devis:", stats.TotalQuotes)
			fmt.Fprintf(w, "%-18s %s\n", "Montant total:", format.Euros(stats.TotalAmount.Float()))
			fmt.Fprintf(w, "%-18s %s\n", "Montant moyen:", format.Euros(stats.AverageAmount.Float()))
			fmt.Fprintf(w, "%-18s %s\n", "Taux d'acceptation:", format.Percentage(stats.ConversionRate.Float(), 1))
			summary := stats.Summary()
			for _, st := range quote.Statuses {
				fmt.Fprintf(w, "  %-16s %d\n", st.Label()+":", summary.Count(st))
			}
			for _, m := range stats.QuotesByMonth {
				fmt.Fprintf(w, "  %-16s %d  %s\n", m.Month, m.Count, format.Euros(m.Total.Float()))
			}
			for _, p := range stats.TopProjectTypes {
				fmt.Fprintf(w, "  %-16s %d  %s\n", format.Truncate(p.Name, 16, "…"), p.Count, format.Euros(p.TotalAmount.Float()))
			}
			return nil
		},
	}
}

func newQuotesPDFCmd(provide provider) *cobra.Command {
	var (
		local bool
		dir   string
	)
	c := singleAction(provide, "pdf ID", "Download the PDF of a quote", func(ctx context.Context, c *cobra.Command, rt *appEnv, id int) error {
		q, err := fetchQuote(ctx, rt, id)
		if err != nil {
			return err
		}
		var path string
		if local {
			path, err = rt.admin.ExportDetail(q)
		} else {
			path, err = rt.admin.DownloadPDF(ctx, id, q.QuoteNumber)
		}
		if err != nil {
			return cmd.Reported(err)
		}
		fmt.Fprintln(c.OutOrStdout(), path)
		return nil
	})
	c.PreRun = func(c *cobra.Command, args []string) { setExportDir(dir) }
	c.Flags().BoolVar(&local, "local", false, "Render the PDF locally instead of downloading it")
	c.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default from export_dir)")
	return c
}

func newQuotesExportCmd(provide provider) *cobra.Command {
	var (
		filter quoteFilter
		kind   string
		ids    []int
		name   string
		dir    string
	)
	c := &cobra.Command{
		Use:   "export",
		Short: "Export quotes to Excel or a PDF report",
		Long: `Export the matching quotes, or only --ids, to an xlsx spreadsheet or a
PDF report with statistics computed from the exported quotes.`,
		Args: cobra.NoArgs,
		PreRun: func(c *cobra.Command, args []string) {
			setExportDir(dir)
		},
		RunE: func(c *cobra.Command, args []string) error {
			if kind != "xlsx" && kind != "pdf" {
				return fmt.Errorf("invalid export type %q: must be xlsx or pdf", kind)
			}
			ctx := contextOf(c)
			rt, err := provide(ctx)
			if err != nil {
				return err
			}
			list, err := filter.load(ctx, rt)
			if err != nil {
				return err
			}
			quotes := list.Filtered()
			if len(ids) > 0 {
				for _, id := range ids {
					if !list.IsSelected(id) {
						list.Toggle(id)
					}
				}
				list.PruneSelection()
				quotes = list.SelectedQuotes()
			}

			var (
				path string
				ok   bool
			)
			if kind == "xlsx" {
				path, ok, err = rt.admin.ExportSpreadsheet(quotes, name)
			} else {
				path, ok, err = rt.admin.ExportReport(quotes, name)
			}
			if err != nil {
				return cmd.Reported(err)
			}
			if ok {
				fmt.Fprintln(c.OutOrStdout(), path)
			}
			return nil
		},
	}
	filter.bind(c)
	c.Flags().StringVarP(&kind, "type", "t", "xlsx", "Export type: xlsx or pdf")
	c.Flags().IntSliceVar(&ids, "ids", nil, "Only export these quote ids")
	c.Flags().StringVarP(&name, "name", "n", "", "File name prefix")
	c.Flags().StringVarP(&dir, "dir", "d", "", "Directory to write to (default from export_dir)")
	return c
}

// setExportDir overrides export_dir for this run.
func setExportDir(dir string) {
	if dir != "" {
		config.Set("export_dir", dir)
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewQuotesCmd(deps.env))
}
