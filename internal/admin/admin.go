// Package admin implements the quote administration workflow on top of the
// backend client, the call facade and the listing controller.
package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quotedesk/quotedesk/internal/api"
	"github.com/quotedesk/quotedesk/internal/config"
	"github.com/quotedesk/quotedesk/internal/export"
	"github.com/quotedesk/quotedesk/internal/facade"
	"github.com/quotedesk/quotedesk/internal/listing"
	"github.com/quotedesk/quotedesk/internal/loader"
	"github.com/quotedesk/quotedesk/internal/logging"
	"github.com/quotedesk/quotedesk/internal/quote"
)

// User-facing messages.
const (
	MsgLoadFailed       = "Erreur lors du chargement des devis"
	MsgQuoteSent        = "Devis envoyé avec succès"
	MsgSendFailed       = "Erreur lors de l'envoi du devis"
	MsgPDFDownloaded    = "PDF téléchargé avec succès"
	MsgPDFFailed        = "Erreur lors du téléchargement du PDF"
	MsgQuoteUpdated     = "Devis mis à jour avec succès"
	MsgQuoteBackToDraft = "Devis mis à jour et repassé en brouillon. Vous devez le renvoyer au client pour signature."
	MsgUpdateFailed     = "Erreur lors de la mise à jour du devis"
	MsgDuplicated       = "Devis dupliqué avec succès"
	MsgRejected         = "Devis refusé"
	MsgNothingToExport  = "Aucun devis à exporter"
	MsgSpreadsheetError = "Erreur lors de l'export Excel"
	MsgReportError      = "Erreur lors de l'export PDF"
)

// Default export base names.
const (
	SpreadsheetName = "devis_admin"
	ReportName      = "rapport_devis_admin"
)

// BulkResult counts the outcome of a bulk operation.
type BulkResult struct {
	Succeeded int
	Failed    int
}

// Option configures a Service.
type Option func(*Service)

// WithExportDir sets where exports and downloaded PDFs are written.
func WithExportDir(dir string) Option {
	return func(s *Service) { s.exportDir = dir }
}

// WithClock overrides the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service runs admin operations, reporting outcomes through the facade and
// reloading the listing after each mutation.
type Service struct {
	backend   api.QuoteService
	facade    *facade.Facade
	list      *listing.Controller
	exportDir string
	now       func() time.Time
	logger    logging.Logger

	mu      sync.RWMutex
	stats   *quote.ServerStatistics
	busyIDs map[int]string
}

// New creates a service.
func New(backend api.QuoteService, f *facade.Facade, list *listing.Controller, opts ...Option) *Service {
	s := &Service{
		backend:   backend,
		facade:    f,
		list:      list,
		exportDir: ".",
		now:       time.Now,
		logger:    logging.With("component", "admin"),
		busyIDs:   make(map[int]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a service writing files to export_dir.
func NewFromConfig(backend api.QuoteService, f *facade.Facade, list *listing.Controller, opts ...Option) *Service {
	base := []Option{WithExportDir(config.Get("export_dir", "."))}
	return New(backend, f, list, append(base, opts...)...)
}

// List returns the listing controller.
func (s *Service) List() *listing.Controller { return s.list }

// Facade returns the call facade.
func (s *Service) Facade() *facade.Facade { return s.facade }

// Statistics returns the last loaded server statistics, or nil.
func (s *Service) Statistics() *quote.ServerStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Busy returns the action running on quote id ("send", "pdf"), or "".
func (s *Service) Busy(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busyIDs[id]
}

func (s *Service) mark(id int, action string) func() {
	s.mu.Lock()
	s.busyIDs[id] = action
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.busyIDs, id)
		s.mu.Unlock()
	}
}

// Load fetches quotes and statistics concurrently. A statistics failure is
// silent and leaves Statistics nil; a quotes failure empties the listing and
// is returned.
func (s *Service) Load(ctx context.Context) error {
	loadQuotes := func(ctx context.Context) error {
		quotes, err := facade.Get(ctx, s.facade, func(ctx context.Context) ([]quote.Quote, error) {
			return s.backend.ListQuotes(ctx, "")
		}, facade.Options{ErrorMessage: MsgLoadFailed, Counter: true})
		if err != nil {
			s.list.SetQuotes(nil)
			return err
		}
		s.list.SetQuotes(quotes)
		return nil
	}
	loadStats := func(ctx context.Context) error {
		stats, err := facade.Get(ctx, s.facade, s.backend.Statistics, facade.Options{QuietError: true, Counter: true})
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.logger.Debug("statistics unavailable", "error", err)
			s.stats = nil
			return nil
		}
		s.stats = &stats
		return nil
	}
	return s.facade.Loader().RunAllParallel(ctx, loadQuotes, loadStats)
}

// reload refreshes the data after a mutation. Its failure is already
// toasted and does not fail the mutation.
func (s *Service) reload(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("reload failed", "error", err)
	}
}

// Send emails a quote to its client and reloads.
func (s *Service) Send(ctx context.Context, id int) (api.SendResult, error) {
	defer s.mark(id, "send")()
	res, err := facade.Call(ctx, s.facade, func(ctx context.Context) (api.SendResult, error) {
		return s.backend.SendQuote(ctx, id)
	}, facade.Options{SuccessMessage: MsgQuoteSent, ErrorMessage: MsgSendFailed})
	if err != nil {
		return api.SendResult{}, err
	}
	s.reload(ctx)
	return res, nil
}

// DownloadPDF fetches the server-rendered PDF and writes it to the export
// directory, returning the file path.
func (s *Service) DownloadPDF(ctx context.Context, id int, number string) (string, error) {
	defer s.mark(id, "pdf")()
	pdf, err := facade.Call(ctx, s.facade, func(ctx context.Context) (api.PDF, error) {
		return s.backend.DownloadPDF(ctx, id, number)
	}, facade.Options{SuccessMessage: MsgPDFDownloaded, ErrorMessage: MsgPDFFailed})
	if err != nil {
		return "", err
	}
	return export.Write(s.exportDir, export.Artifact{Filename: pdf.Filename, ContentType: export.ContentTypePDF, Data: pdf.Data})
}

// Save patches a quote. Moving a quote back to draft gets a dedicated
// message since it has to be sent again.
func (s *Service) Save(ctx context.Context, id int, fields map[string]any) (quote.Quote, error) {
	msg := MsgQuoteUpdated
	if backToDraft(fields) {
		msg = MsgQuoteBackToDraft
	}
	q, err := facade.Update(ctx, s.facade, func(ctx context.Context) (quote.Quote, error) {
		return s.backend.PatchQuote(ctx, id, fields)
	}, facade.Options{SuccessMessage: msg, ErrorMessage: MsgUpdateFailed})
	if err != nil {
		return quote.Quote{}, err
	}
	s.reload(ctx)
	return q, nil
}

func backToDraft(fields map[string]any) bool {
	switch v := fields["status"].(type) {
	case string:
		return v == string(quote.StatusDraft)
	case quote.Status:
		return v == quote.StatusDraft
	}
	return false
}

// BulkSend sends quotes one after another, counting outcomes. One success
// toast and one error toast summarize the run.
func (s *Service) BulkSend(ctx context.Context, ids []int) BulkResult {
	var res BulkResult
	_ = s.facade.Loader().Run(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			if _, err := s.backend.SendQuote(ctx, id); err != nil {
				res.Failed++
				s.logger.Warn("bulk send failed", "quote_id", id, "error", err)
				continue
			}
			res.Succeeded++
		}
		return nil
	}, loader.ModeSimple)

	q := s.facade.Queue()
	if res.Succeeded > 0 {
		q.Success(fmt.Sprintf("%d devis envoyés avec succès", res.Succeeded), "")
	}
	if res.Failed > 0 {
		q.Error(fmt.Sprintf("%d devis n'ont pas pu être envoyés", res.Failed), "")
	}
	s.reload(ctx)
	return res
}

// BulkDelete deletes the given quotes in one request, drops them from the
// selection and reloads.
func (s *Service) BulkDelete(ctx context.Context, ids []int) (api.BulkDeleteResult, error) {
	if len(ids) == 0 {
		return api.BulkDeleteResult{}, nil
	}
	res, err := facade.Call(ctx, s.facade, func(ctx context.Context) (api.BulkDeleteResult, error) {
		return s.backend.BulkDeleteQuotes(ctx, ids)
	}, facade.Options{SuccessMessage: fmt.Sprintf("%d devis supprimés", len(ids))})
	if err != nil {
		return api.BulkDeleteResult{}, err
	}
	s.reload(ctx)
	s.list.PruneSelection()
	return res, nil
}

// Delete removes a single quote.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.facade.Delete(ctx, func(ctx context.Context) error {
		return s.backend.DeleteQuote(ctx, id)
	}, facade.Options{}); err != nil {
		return err
	}
	s.reload(ctx)
	s.list.PruneSelection()
	return nil
}

// Duplicate copies a quote into a new draft.
func (s *Service) Duplicate(ctx context.Context, id int) (quote.Quote, error) {
	q, err := facade.Create(ctx, s.facade, func(ctx context.Context) (quote.Quote, error) {
		return s.backend.DuplicateQuote(ctx, id)
	}, facade.Options{SuccessMessage: MsgDuplicated})
	if err != nil {
		return quote.Quote{}, err
	}
	s.reload(ctx)
	return q, nil
}

// Reject marks a quote rejected with a reason.
func (s *Service) Reject(ctx context.Context, id int, reason string) error {
	if err := s.facade.Do(ctx, func(ctx context.Context) error {
		return s.backend.RejectQuote(ctx, id, reason)
	}, facade.Options{SuccessMessage: MsgRejected}); err != nil {
		return err
	}
	s.reload(ctx)
	return nil
}

// ExportSpreadsheet writes quotes as an xlsx file. ok is false, after a
// warning toast, when there is nothing to export.
func (s *Service) ExportSpreadsheet(quotes []quote.Quote, name string) (path string, ok bool, err error) {
	if name == "" {
		name = SpreadsheetName
	}
	return s.exportWith(quotes, func() (export.Artifact, bool, error) {
		return export.Spreadsheet(quotes, name, s.now())
	}, fmt.Sprintf("%d devis exportés en Excel", len(quotes)), MsgSpreadsheetError)
}

// ExportReport writes quotes as a PDF report with statistics computed from
// the exported quotes.
func (s *Service) ExportReport(quotes []quote.Quote, name string) (path string, ok bool, err error) {
	if name == "" {
		name = ReportName
	}
	return s.exportWith(quotes, func() (export.Artifact, bool, error) {
		stats := quote.ComputeStatistics(quotes)
		return export.PDFReport(quotes, &stats, name, s.now())
	}, fmt.Sprintf("Rapport PDF généré pour %d devis", len(quotes)), MsgReportError)
}

func (s *Service) exportWith(quotes []quote.Quote, render func() (export.Artifact, bool, error), success, failure string) (string, bool, error) {
	q := s.facade.Queue()
	if len(quotes) == 0 {
		q.Warning(MsgNothingToExport, "")
		return "", false, nil
	}
	a, ok, err := render()
	if err == nil && ok {
		var path string
		if path, err = export.Write(s.exportDir, a); err == nil {
			q.Success(success, "")
			return path, true, nil
		}
	}
	if err != nil {
		s.logger.Error("export failed", "error", err)
		q.Error(facade.MessageFor(err, failure), "")
		return "", false, err
	}
	return "", false, nil
}

// ExportDetail renders a single quote locally and writes it.
func (s *Service) ExportDetail(q quote.Quote) (string, error) {
	a, err := export.QuoteDetail(q)
	if err == nil {
		var path string
		if path, err = export.Write(s.exportDir, a); err == nil {
			s.facade.Queue().Success(MsgPDFDownloaded, path)
			return path, nil
		}
	}
	s.facade.Queue().Error(facade.MessageFor(err, MsgPDFFailed), "")
	return "", err
}
