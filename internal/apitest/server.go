// Package apitest runs an in-process fake of the quote backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quotedesk/quotedesk/internal/quote"
)

// Fixed credentials accepted by the fake.
const (
	Username = "admin"
	Password = "Secret123"
)

const accessTTL = 5 * time.Minute

type claims struct {
	Gen  int    `json:"gen"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Failure makes the next matching requests fail.
type Failure struct {
	Status int
	Body   any
	Times  int
}

// Server is a fake backend. Zero or more quotes are seeded with Seed.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	secret      []byte
	gen         int
	refreshes   map[string]bool
	quotes      map[int]quote.Quote
	nextID      int
	tables      quote.Tables
	contacts    []map[string]any
	failures    map[string]*Failure
	hits        map[string]int
	authHeaders []string
	paginate    bool
	failRefresh bool
	refreshHits int
	user        quote.User
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{
		secret:    []byte("apitest-" + uuid.NewString()),
		gen:       1,
		refreshes: make(map[string]bool),
		quotes:    make(map[int]quote.Quote),
		nextID:    1,
		failures:  make(map[string]*Failure),
		hits:      make(map[string]int),
		user:      quote.User{ID: 1, Username: Username, Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", IsStaff: true},
		tables:    DefaultTables(),
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// DefaultTables are the reference tables served by the fake.
func DefaultTables() quote.Tables {
	return quote.Tables{
		ProjectTypes:         []quote.ProjectType{{ID: 1, Name: "Site vitrine", BasePrice: 500, IsActive: true}, {ID: 2, Name: "E-commerce", BasePrice: 2000, IsActive: true}},
		DesignOptions:        []quote.DesignOption{{ID: 1, Name: "Template", PriceSupplement: 100, IsActive: true}},
		ComplexityLevels:     []quote.ComplexityLevel{{ID: 1, Name: "Simple", PriceMultiplier: 1, IsActive: true}, {ID: 2, Name: "Avancé", PriceMultiplier: 1.5, IsActive: true}},
		SupplementaryOptions: []quote.SupplementaryOption{{ID: 1, Name: "SEO", Price: 50, IsActive: true}, {ID: 2, Name: "Blog", Price: 30, IsActive: true}},
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.record)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login/", s.handleLogin)
		r.Post("/register/", s.handleRegister)
		r.Post("/token/refresh/", s.handleRefresh)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile/", s.handleProfile)
			r.Post("/logout/", s.handleLogout)
		})
	})

	r.Get("/api/project-types/", s.serveJSON(func() any { return s.tables.ProjectTypes }))
	r.Get("/api/design-options/", s.serveJSON(func() any { return s.tables.DesignOptions }))
	r.Get("/api/complexity-levels/", s.serveJSON(func() any { return s.tables.ComplexityLevels }))
	r.Get("/api/supplementary-options/", s.serveJSON(func() any { return s.tables.SupplementaryOptions }))
	r.Get("/api/quote-templates/", s.serveJSON(func() any { return []any{} }))
	r.Get("/api/company/", s.serveJSON(func() any { return []any{map[string]any{"id": 1, "name": "Agence"}} }))

	r.Post("/api/portfolio/contact/", s.handleContactCreate)
	r.Get("/api/portfolio/technologies/", s.serveJSON(func() any { return []any{map[string]any{"id": 1, "name": "Go", "is_active": true}} }))
	r.Get("/api/portfolio/projects/", s.serveJSON(func() any { return []any{map[string]any{"id": 1, "title": "Site", "slug": "site"}} }))
	r.Get("/api/portfolio/projects/{slug}/", s.handleProject)
	r.Get("/api/portfolio/testimonials/", s.serveJSON(func() any { return []any{} }))
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/api/portfolio/contact/", s.serveJSON(func() any { return s.contacts }))
		r.Get("/api/portfolio/contact/{id}/", s.handleContactGet)
		r.Patch("/api/portfolio/contact/{id}/", s.handleContactPatch)
	})

	r.Route("/api/quotes", func(r chi.Router) {
		r.Get("/public/{token}/", s.handlePublicQuote)
		r.Post("/sign/{token}/", s.handleSign)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListQuotes)
			r.Post("/", s.handleCreateQuote)
			r.Get("/statistics/", s.handleStatistics)
			r.Get("/my-quotes/", s.handleListQuotes)
			r.Post("/bulk-delete/", s.handleBulkDelete)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.withQuote(s.handleGetQuote))
				r.Put("/", s.withQuote(s.handlePatchQuote))
				r.Patch("/", s.withQuote(s.handlePatchQuote))
				r.Delete("/", s.withQuote(s.handleDeleteQuote))
				r.Post("/send-email/", s.withQuote(s.handleSend))
				r.Post("/duplicate/", s.withQuote(s.handleDuplicate))
				r.Post("/reject/", s.withQuote(s.handleReject))
				r.Get("/download-pdf/", s.withQuote(s.handlePDF))
			})
		})
	})
	return r
}

// Seed adds quotes and returns their assigned ids.
func (s *Server) Seed(quotes ...quote.Quote) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(quotes))
	for _, q := range quotes {
		q.ID = s.nextID
		s.nextID++
		if q.QuoteNumber == "" {
			q.QuoteNumber = fmt.Sprintf("DEV-%04d", q.ID)
		}
		if q.Status == "" {
			q.Status = quote.StatusDraft
		}
		if q.SignatureToken == "" {
			q.SignatureToken = uuid.NewString()
		}
		s.quotes[q.ID] = q
		ids = append(ids, q.ID)
	}
	return ids
}

// Quote returns the stored quote with id.
func (s *Server) Quote(id int) (quote.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	return q, ok
}

// Paginate switches list endpoints to the {"results": [...]} shape.
func (s *Server) Paginate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paginate = on
}

// FailRefresh makes the refresh endpoint reject every token.
func (s *Server) FailRefresh(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = on
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// FailNext makes the next f.Times requests to "METHOD /path" fail.
func (s *Server) FailNext(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Times == 0 {
		f.Times = 1
	}
	s.failures[route] = &f
}

// Hits returns how many times "METHOD /path" was requested.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// RefreshCount returns the number of refresh requests received.
func (s *Server) RefreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshHits
}

// AuthHeaders returns every Authorization header received, in order.
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

// IssueTokens mints a valid token pair without going through login.
func (s *Server) IssueTokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked()
}

func (s *Server) mintLocked() (string, string) {
	now := time.Now()
	sign := func(kind string, ttl time.Duration) string {
		c := claims{
			Gen:  s.gen,
			Kind: kind,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   strconv.Itoa(s.user.ID),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
		if err != nil {
			panic(err)
		}
		return tok
	}
	access := sign("access", accessTTL)
	refresh := sign("refresh", 24*time.Hour)
	s.refreshes[refresh] = true
	return access, refresh
}

func (s *Server) verify(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.hits[route]++
		if h := r.Header.Get("Authorization"); h != "" {
			s.authHeaders = append(s.authHeaders, h)
		}
		f := s.failures[route]
		if f != nil {
			f.Times--
			if f.Times <= 0 {
				delete(s.failures, route)
			}
		}
		s.mu.Unlock()

		if f != nil {
			writeJSON(w, f.Status, f.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		c, err := s.verify(token)
		s.mu.Lock()
		stale := err == nil && (c.Gen < s.gen || c.Kind != "access")
		s.mu.Unlock()
		if err != nil || stale {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serveJSON(fn func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		v := fn()
		paginate := s.paginate
		s.mu.Unlock()
		if paginate {
			v = map[string]any{"count": lenOf(v), "results": v}
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func lenOf(v any) int {
	data, _ := json.Marshal(v)
	var items []json.RawMessage
	_ = json.Unmarshal(data, &items)
	return len(items)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &body); err != nil || body.Username != Username || body.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	s.mu.Lock()
	access, refresh := s.mintLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if body["password"] != body["password2"] {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"Les mots de passe ne correspondent pas."}})
		return
	}
	if body["username"] == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"Ce champ est obligatoire."}})
		return
	}
	s.mu.Lock()
	s.user = quote.User{ID: 2, Username: body["username"], Email: body["email"], Phone: body["phone"], CompanyName: body["company_name"]}
	access, refresh := s.mintLocked()
	user := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":   user,
		"tokens": map[string]string{"refresh": refresh, "access": access},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = decode(r, &body)

	s.mu.Lock()
	s.refreshHits++
	valid := s.refreshes[body.Refresh] && !s.failRefresh
	s.mu.Unlock()

	if valid {
		if c, err := s.verify(body.Refresh); err != nil || c.Kind != "refresh" {
			valid = false
		}
	}
	if !valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}

	s.mu.Lock()
	access, _ := s.mintLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = decode(r, &body)
	s.mu.Lock()
	delete(s.refreshes, body.Refresh)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Déconnexion réussie"})
}

func (s *Server) sortedQuotes(status string) []quote.Quote {
	out := make([]quote.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if status == "" || string(q.Status) == status {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	s.serveJSON(func() any { return s.sortedQuotes(status) })(w, r)
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var q quote.Quote
	if err := decode(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if q.ClientEmail == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"client_email": {"Ce champ est obligatoire."}})
		return
	}
	q.Status = quote.StatusDraft
	id := s.Seed(q)[0]
	created, _ := s.Quote(id)
	writeJSON(w, http.StatusCreated, created)
}

type quoteHandler func(w http.ResponseWriter, r *http.Request, q quote.Quote)

func (s *Server) withQuote(h quoteHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		q, ok := s.Quote(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		h(w, r, q)
	}
}

func (s *Server) store(q quote.Quote) {
	s.mu.Lock()
	s.quotes[q.ID] = q
	s.mu.Unlock()
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handlePatchQuote(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	var fields map[string]json.RawMessage
	if err := decode(r, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	current, _ := json.Marshal(q)
	var merged map[string]json.RawMessage
	_ = json.Unmarshal(current, &merged)
	for k, v := range fields {
		merged[k] = v
	}
	data, _ := json.Marshal(merged)
	var updated quote.Quote
	if err := json.Unmarshal(data, &updated); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if !updated.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"status": {fmt.Sprintf("\"%s\" n'est pas un choix valide.", updated.Status)}})
		return
	}
	updated.ID = q.ID
	s.store(updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	s.mu.Lock()
	delete(s.quotes, q.ID)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int `json:"ids"`
	}
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.mu.Lock()
	deleted := 0
	for _, id := range body.IDs {
		if _, ok := s.quotes[id]; ok {
			delete(s.quotes, id)
			deleted++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "message": fmt.Sprintf("%d devis supprimés", deleted)})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	now := time.Now().UTC().Format(time.RFC3339)
	q.Status = quote.StatusSent
	q.SentAt = now
	s.store(q)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Devis envoyé avec succès", "sent_at": now})
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	q.QuoteNumber = ""
	q.SignatureToken = ""
	q.Status = quote.StatusDraft
	id := s.Seed(q)[0]
	dup, _ := s.Quote(id)
	writeJSON(w, http.StatusCreated, dup)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = decode(r, &body)
	q.Status = quote.StatusRejected
	q.Notes = body.Reason
	s.store(q)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Devis refusé"})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request, q quote.Quote) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="devis_%s.pdf"`, q.QuoteNumber))
	_, _ = w.Write([]byte("%PDF-1.4 fake " + q.QuoteNumber))
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.sortedQuotes("")
	s.mu.Unlock()
	breakdown := map[string]int{}
	var total float64
	for _, q := range all {
		breakdown[string(q.Status)]++
		total += q.GrossTotal().Float()
	}
	avg := 0.0
	conversion := 0.0
	if len(all) > 0 {
		avg = total / float64(len(all))
		conversion = float64(breakdown[string(quote.StatusAccepted)]) / float64(len(all)) * 100
	}
	writeJSON(w, http.StatusOK, quote.ServerStatistics{
		TotalQuotes:     len(all),
		TotalAmount:     quote.Decimal(total),
		AverageAmount:   quote.Decimal(avg),
		StatusBreakdown: breakdown,
		ConversionRate:  quote.Decimal(conversion),
		QuotesByMonth:   []quote.MonthTotal{},
		TopProjectTypes: []quote.ProjectTypeTotal{},
	})
}

func (s *Server) byToken(token string) (quote.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quotes {
		if q.SignatureToken == token {
			return q, true
		}
	}
	return quote.Quote{}, false
}

func (s *Server) handlePublicQuote(w http.ResponseWriter, r *http.Request) {
	q, ok := s.byToken(chi.URLParam(r, "token"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Devis non trouvé"})
		return
	}
	if q.Status == quote.StatusSent {
		q.Status = quote.StatusViewed
		s.store(q)
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	q, ok := s.byToken(chi.URLParam(r, "token"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Devis non trouvé"})
		return
	}
	var body struct {
		SignatureData string `json:"signature_data"`
		ClientName    string `json:"client_name"`
	}
	_ = decode(r, &body)
	if body.SignatureData == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Signature requise"})
		return
	}
	if q.Status == quote.StatusAccepted {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ce devis a déjà été signé"})
		return
	}
	q.Status = quote.StatusAccepted
	s.store(q)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Devis signé avec succès", "quote": q})
}

func (s *Server) handleContactCreate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	body["id"] = len(s.contacts) + 1
	body["status"] = "new"
	s.contacts = append(s.contacts, body)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug != "site" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": 1, "title": "Site", "slug": "site"})
}

// contactLocked returns the index of the contact message named by the id
// URL parameter, or -1.
func (s *Server) contactLocked(r *http.Request) int {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 || id > len(s.contacts) {
		return -1
	}
	return id - 1
}

func (s *Server) handleContactGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.contactLocked(r)
	var msg map[string]any
	if i >= 0 {
		msg = s.contacts[i]
	}
	s.mu.Unlock()
	if msg == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleContactPatch(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decode(r, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	i := s.contactLocked(r)
	var msg map[string]any
	if i >= 0 {
		maps.Copy(s.contacts[i], fields)
		msg = s.contacts[i]
	}
	s.mu.Unlock()
	if msg == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
