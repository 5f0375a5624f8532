package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/coop-loan-preview/internal/application"
	"github.com/iwvelando/coop-loan-preview/internal/config"
	"github.com/iwvelando/coop-loan-preview/internal/preview"
	"github.com/iwvelando/coop-loan-preview/pkg/amortization"
	"github.com/iwvelando/coop-loan-preview/pkg/constants"
	"github.com/iwvelando/coop-loan-preview/pkg/format"
	"github.com/iwvelando/coop-loan-preview/pkg/formvalue"
	"github.com/iwvelando/coop-loan-preview/pkg/output"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the loan preview API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metrics:       newMetrics(),
	}

	mux := http.NewServeMux()

	// Live preview of a single form, called on every edit
	mux.HandleFunc("/api/preview", h.metrics.instrument("preview", h.handlePreview))

	// Duration preset applied to a form
	mux.HandleFunc("/api/preview/duration", h.metrics.instrument("preview_duration", h.handlePreviewDuration))

	// Preview of every application in an uploaded configuration file
	mux.HandleFunc("/api/preview/upload", h.metrics.instrument("preview_upload", h.handlePreviewUpload))

	// Submission payload for the loan-creation endpoint
	mux.HandleFunc("/api/applications", h.metrics.instrument("applications", h.handleApplication))

	mux.HandleFunc("/api/durations", h.handleDurations)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.Handle("/metrics", h.metrics.handler())

	return mux
}

type previewRequest struct {
	Name string `json:"name"`
	formvalue.LoanForm
}

type durationRequest struct {
	Name   string             `json:"name"`
	Form   formvalue.LoanForm `json:"form"`
	Months formvalue.Field    `json:"months"`
}

type previewResponse struct {
	Name        string             `json:"name,omitempty"`
	Form        formvalue.LoanForm `json:"form"`
	Valid       bool               `json:"valid"`
	Rows        []scheduleRow      `json:"rows"`
	Summary     scheduleSummary    `json:"summary"`
	FieldErrors map[string]string  `json:"fieldErrors,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

type scheduleRow struct {
	Month          int             `json:"month"`
	DueMonth       string          `json:"dueMonth,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Interest       decimal.Decimal `json:"interest"`
	PrincipalPaid  decimal.Decimal `json:"principalPaid"`
	Penalty        decimal.Decimal `json:"penalty"`
	TotalPayable   decimal.Decimal `json:"totalPayable"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

type scheduleSummary struct {
	TotalMonths           int             `json:"totalMonths"`
	TotalPrincipal        decimal.Decimal `json:"totalPrincipal"`
	TotalInterest         decimal.Decimal `json:"totalInterest"`
	TotalPenalty          decimal.Decimal `json:"totalPenalty"`
	TotalPayable          decimal.Decimal `json:"totalPayable"`
	AverageMonthlyPayment decimal.Decimal `json:"averageMonthlyPayment"`
	Truncated             bool            `json:"truncated"`
	ResidualBalance       decimal.Decimal `json:"residualBalance"`
	Display               summaryDisplay  `json:"display"`
}

type summaryDisplay struct {
	InterestRate          string `json:"interestRate"`
	TotalInterest         string `json:"totalInterest"`
	TotalPenalty          string `json:"totalPenalty"`
	TotalPayable          string `json:"totalPayable"`
	AverageMonthlyPayment string `json:"averageMonthlyPayment"`
}

type uploadResponse struct {
	Applications []previewResponse `json:"applications"`
	CSV          string            `json:"csv"`
	Warnings     []string          `json:"warnings,omitempty"`
	Duration     string            `json:"duration"`
}

type applicationErrorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func (h *handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req previewRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan form: %v", err), "server.handlePreview")
		return
	}

	result := preview.Compute(h.logger, req.Name, req.LoanForm)
	h.metrics.observeSchedule(result.Schedule)
	h.writeJSON(w, http.StatusOK, buildPreviewResponse(result, defaultDisplay))
}

func (h *handler) handlePreviewDuration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req durationRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode duration request: %v", err), "server.handlePreviewDuration")
		return
	}

	months := formvalue.ParseInt(req.Months.String())
	form, err := req.Form.ApplyDuration(months)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid duration %q: %v", req.Months, err), "server.handlePreviewDuration")
		return
	}

	result := preview.Compute(h.logger, req.Name, form)
	h.metrics.observeSchedule(result.Schedule)
	h.writeJSON(w, http.StatusOK, buildPreviewResponse(result, defaultDisplay))
}

func (h *handler) handlePreviewUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePreviewUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
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

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results := preview.GetPreviews(h.logger, *cfg)

	symbol, locale := cfg.Output.CurrencySymbol, cfg.Output.Locale
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	if locale == "" {
		locale = constants.DefaultLocale
	}
	display := format.NewFormatter(locale, symbol)

	applications := make([]previewResponse, 0, len(results))
	for _, result := range results {
		h.metrics.observeSchedule(result.Schedule)
		applications = append(applications, buildPreviewResponse(result, display))
	}

	elapsed := time.Since(start)
	h.logger.Info("previews computed",
		zap.String("op", op),
		zap.Int("applications", len(applications)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, uploadResponse{
		Applications: applications,
		CSV:          output.CsvString(results),
		Warnings:     warnings,
		Duration:     elapsed.String(),
	})
}

func (h *handler) handleApplication(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleApplication"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req previewRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan form: %v", err), op)
		return
	}

	query := r.URL.Query()
	opts := application.Options{
		IncludeSchedule:     queryBool(query.Get("schedule")),
		IncludeInstallments: queryBool(query.Get("installments")),
		AllowTruncated:      queryBool(query.Get("allowTruncated")),
	}

	result := preview.Compute(h.logger, req.Name, req.LoanForm)
	h.metrics.observeSchedule(result.Schedule)

	submission, err := application.Build(result.Form, result.Schedule, opts)
	if err != nil {
		h.logger.Info("loan application rejected",
			zap.String("op", op),
			zap.Error(err),
		)
		resp := applicationErrorResponse{Error: err.Error()}
		var validationErr *application.ValidationError
		if errors.As(err, &validationErr) {
			resp.FieldErrors = validationErr.Fields.Map()
		}
		h.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	h.logger.Info("loan application prepared",
		zap.String("op", op),
		zap.String("clientReference", submission.ClientReference),
		zap.String("memberId", submission.MemberID),
	)
	h.writeJSON(w, http.StatusOK, submission)
}

func (h *handler) handleDurations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]int{
		"durations": amortization.DurationPresets,
	})
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

var defaultDisplay = format.NewFormatter(constants.DefaultLocale, constants.DefaultCurrencySymbol)

func buildPreviewResponse(result preview.Preview, display format.Formatter) previewResponse {
	rounded := result.Schedule.Rounded()

	rows := make([]scheduleRow, 0, len(rounded.Entries))
	for i, entry := range rounded.Entries {
		row := scheduleRow{
			Month:          entry.Period,
			OpeningBalance: entry.OpeningBalance,
			Interest:       entry.InterestCharged,
			PrincipalPaid:  entry.PrincipalPaid,
			Penalty:        entry.Penalty,
			TotalPayable:   entry.TotalPayable,
			ClosingBalance: entry.ClosingBalance,
		}
		if i < len(result.DueMonths) {
			row.DueMonth = result.DueMonths[i]
		}
		rows = append(rows, row)
	}

	schedule := result.Schedule
	average := schedule.AverageMonthlyPayment()
	resp := previewResponse{
		Name:  result.Name,
		Form:  result.Form,
		Valid: result.Valid(),
		Rows:  rows,
		Summary: scheduleSummary{
			TotalMonths:           schedule.PeriodCount(),
			TotalPrincipal:        rounded.TotalPrincipal,
			TotalInterest:         rounded.TotalInterest,
			TotalPenalty:          rounded.TotalPenalty,
			TotalPayable:          rounded.TotalPayable,
			AverageMonthlyPayment: average.Round(constants.DecimalPlaces),
			Truncated:             schedule.Truncated(),
			ResidualBalance:       schedule.ResidualBalance().Round(constants.DecimalPlaces),
			Display: summaryDisplay{
				InterestRate:          format.Percent(result.Terms.MonthlyInterestRate),
				TotalInterest:         display.Currency(schedule.TotalInterest),
				TotalPenalty:          display.Currency(schedule.TotalPenalty),
				TotalPayable:          display.Currency(schedule.TotalPayable),
				AverageMonthlyPayment: display.Currency(average),
			},
		},
		Warnings: result.Warnings,
	}
	if len(result.FieldErrors) > 0 {
		resp.FieldErrors = result.FieldErrors.Map()
	}
	return resp
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("preview request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func queryBool(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	parsed, err := strconv.ParseBool(trimmed)
	return err == nil && parsed
}
