// Package server exposes the diagnosis engine, accounts and saved analyses
// over HTTP and serves the embedded web form.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/dre-diagnostics/internal/auth"
	"github.com/iwvelando/dre-diagnostics/internal/config"
	"github.com/iwvelando/dre-diagnostics/internal/diagnosis"
	"github.com/iwvelando/dre-diagnostics/internal/store"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/dre"
	"github.com/iwvelando/dre-diagnostics/pkg/format"
	"github.com/iwvelando/dre-diagnostics/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Accounts is the account and session service behind the auth endpoints.
type Accounts interface {
	Register(ctx context.Context, email, password string) (store.Account, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// Analyses persists diagnoses per account.
type Analyses interface {
	SaveAnalysis(ctx context.Context, analysis store.Analysis) (store.Analysis, error)
	ListAnalyses(ctx context.Context, accountID string, limit int) ([]store.Analysis, error)
	GetAnalysis(ctx context.Context, accountID, id string) (store.Analysis, error)
}

// Options configures NewHandler. Accounts and Analyses may be nil, in which
// case the endpoints depending on them answer 503.
type Options struct {
	Logger        *zap.Logger
	MaxUploadSize int64
	Version       string
	Locale        string
	Paywall       bool
	Accounts      Accounts
	Analyses      Analyses
	Metrics       *Metrics
	Now           func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	locale        format.Locale
	paywall       bool
	accounts      Accounts
	analyses      Analyses
	metrics       *Metrics
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the web UI and the API.
func NewHandler(opts Options) (http.Handler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	loc, err := format.NewLocale(opts.Locale)
	if err != nil {
		return nil, err
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       version,
		locale:        loc,
		paywall:       opts.Paywall,
		accounts:      opts.Accounts,
		analyses:      opts.Analyses,
		metrics:       metrics,
		now:           now,
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}

	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, metrics.instrument(pattern, h.withPrincipal(fn)))
	}

	route("/api/version", h.handleVersion)
	route("/api/diagnose", h.handleDiagnose)
	route("/api/diagnose/upload", h.handleUpload)
	route("/api/accounts", h.handleRegister)
	route("/api/login", h.handleLogin)
	route("/api/analyses", h.handleListAnalyses)
	route("/api/analyses/{id}", h.handleGetAnalysis)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux, nil
}

// withPrincipal attaches the bearer token's account to the request context.
// Requests without a token pass through anonymously; a bad token is rejected.
func (h *handler) withPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" || h.accounts == nil {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := h.accounts.Authenticate(r.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "invalid or expired token"
			if !errors.Is(err, auth.ErrInvalidToken) {
				status = http.StatusInternalServerError
				msg = "failed to authenticate request"
			}
			h.respondErrorWithOp(w, status, msg, "server.withPrincipal")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type diagnoseRequest struct {
	Name    string      `json:"name"`
	Period  string      `json:"period"`
	Figures dre.Figures `json:"figures"`
	Save    bool        `json:"save"`
}

type metricsView struct {
	dre.Metrics
	ValuationConservative *float64 `json:"valuationConservative,omitempty"`
	ValuationAverage      *float64 `json:"valuationAverage,omitempty"`
	ValuationAggressive   *float64 `json:"valuationAggressive,omitempty"`
}

type findingView struct {
	dre.Finding
	Text string `json:"text"`
}

type diagnosisView struct {
	Name            string        `json:"name"`
	Period          string        `json:"period"`
	Figures         dre.Figures   `json:"figures"`
	Metrics         metricsView   `json:"metrics"`
	Findings        []findingView `json:"findings"`
	Table           []output.Row  `json:"table"`
	ValuationLocked bool          `json:"valuationLocked,omitempty"`
	AnalysisID      string        `json:"analysisId,omitempty"`
}

type uploadResponse struct {
	Locale    string          `json:"locale"`
	Diagnoses []diagnosisView `json:"diagnoses"`
	CSV       string          `json:"csv,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

func (h *handler) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDiagnose"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	loc, ok := h.requestLocale(w, r, op)
	if !ok {
		return
	}

	var req diagnoseRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = "company"
	}

	principal, signedIn := auth.PrincipalFromContext(r.Context())
	if req.Save && !signedIn {
		h.respondErrorWithOp(w, http.StatusUnauthorized, "sign in to save analyses", op)
		return
	}
	if req.Save && h.analyses == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "saved analyses are disabled", op)
		return
	}

	result, err := diagnosis.Analyze(req.Name, req.Period, req.Figures, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.metrics.observeDiagnosis("form", result.Metrics.HealthScore)

	view := h.view(loc, result, signedIn)

	if req.Save {
		saved, err := h.analyses.SaveAnalysis(r.Context(), store.Analysis{
			AccountID: principal.AccountID,
			Diagnosis: result,
		})
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save analysis: %v", err), op)
			return
		}
		view.AnalysisID = saved.ID
	}

	h.logger.Info("diagnosis computed",
		zap.String("op", op),
		zap.String("company", result.Name),
		zap.Int("healthScore", result.Metrics.HealthScore),
		zap.Bool("saved", view.AnalysisID != ""),
	)

	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	loc, ok := h.requestLocale(w, r, op)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	conf, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	now := h.now()
	warnings := conf.ValidateConfigurationAt(now)

	results, err := diagnosis.GetDiagnosesAt(h.logger, *conf, now)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute diagnoses: %v", err), op)
		return
	}

	_, signedIn := auth.PrincipalFromContext(r.Context())
	locked := h.paywall && !signedIn

	response := uploadResponse{
		Locale:    loc.Tag(),
		Diagnoses: make([]diagnosisView, 0, len(results)),
		Warnings:  warnings,
	}
	for _, result := range results {
		h.metrics.observeDiagnosis("upload", result.Metrics.HealthScore)
		response.Diagnoses = append(response.Diagnoses, h.view(loc, result, signedIn))
	}
	if !locked {
		response.CSV = output.CsvString(results)
	}

	elapsed := time.Since(start)
	response.Duration = elapsed.String()

	h.logger.Info("configuration diagnosed",
		zap.String("op", op),
		zap.Int("companies", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handler) decodeCredentials(w http.ResponseWriter, r *http.Request, op string) (credentials, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return credentials{}, false
	}
	if h.accounts == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "accounts are disabled", op)
		return credentials{}, false
	}

	var creds credentials
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return credentials{}, false
	}
	return creds, true
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRegister"
	creds, ok := h.decodeCredentials(w, r, op)
	if !ok {
		return
	}

	account, err := h.accounts.Register(r.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		h.respondErrorWithOp(w, http.StatusConflict, err.Error(), op)
		return
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	case err != nil:
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to register account", op)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{
		"id":    account.ID,
		"email": account.Email,
	})
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLogin"
	creds, ok := h.decodeCredentials(w, r, op)
	if !ok {
		return
	}

	session, err := h.accounts.Login(r.Context(), creds.Email, creds.Password)
	h.metrics.observeLogin(err == nil)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.respondErrorWithOp(w, http.StatusUnauthorized, err.Error(), op)
		return
	case err != nil:
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to sign in", op)
		return
	}

	h.writeJSON(w, http.StatusOK, session)
}

func (h *handler) requireAccount(w http.ResponseWriter, r *http.Request, op string) (auth.Principal, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return auth.Principal{}, false
	}
	if h.analyses == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "saved analyses are disabled", op)
		return auth.Principal{}, false
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.respondErrorWithOp(w, http.StatusUnauthorized, "authentication required", op)
		return auth.Principal{}, false
	}
	return principal, true
}

func (h *handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListAnalyses"
	principal, ok := h.requireAccount(w, r, op)
	if !ok {
		return
	}

	analyses, err := h.analyses.ListAnalyses(r.Context(), principal.AccountID, constants.DefaultAnalysisListLimit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list analyses: %v", err), op)
		return
	}
	if analyses == nil {
		analyses = []store.Analysis{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
	})
}

func (h *handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetAnalysis"
	principal, ok := h.requireAccount(w, r, op)
	if !ok {
		return
	}

	analysis, err := h.analyses.GetAnalysis(r.Context(), principal.AccountID, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, "analysis not found", op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to load analysis: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, analysis)
}

// requestLocale resolves ?locale= against the server default.
func (h *handler) requestLocale(w http.ResponseWriter, r *http.Request, op string) (format.Locale, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("locale"))
	if name == "" {
		return h.locale, true
	}
	loc, err := format.NewLocale(name)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return format.Locale{}, false
	}
	return loc, true
}

// view renders a diagnosis for the response, hiding valuations behind the
// paywall for anonymous callers.
func (h *handler) view(loc format.Locale, d diagnosis.Diagnosis, signedIn bool) diagnosisView {
	locked := h.paywall && !signedIn

	v := diagnosisView{
		Name:            d.Name,
		Period:          d.Period,
		Figures:         d.Figures,
		Metrics:         metricsView{Metrics: d.Metrics},
		Findings:        make([]findingView, 0, len(d.Findings)),
		ValuationLocked: locked,
	}

	if !locked {
		conservative := d.Metrics.ValuationConservative
		average := d.Metrics.ValuationAverage
		aggressive := d.Metrics.ValuationAggressive
		v.Metrics.ValuationConservative = &conservative
		v.Metrics.ValuationAverage = &average
		v.Metrics.ValuationAggressive = &aggressive
	}

	for _, f := range d.Findings {
		v.Findings = append(v.Findings, findingView{Finding: f, Text: loc.Finding(f)})
	}

	for _, row := range output.Rows(loc, d.Metrics) {
		if locked && row.IsValuation() {
			continue
		}
		v.Table = append(v.Table, row)
	}

	return v
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request rejected", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "failed to encode response"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
