package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eugenenazirov/container-load/internal/batch"
	"github.com/eugenenazirov/container-load/internal/calculator"
	"github.com/eugenenazirov/container-load/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	maxRequestBodyBytes     = 1 << 20
	defaultBatchMaxPackages = 500
)

// Handler wires calculator, storage and batch dependencies into HTTP handlers.
type Handler struct {
	calculator calculator.Calculator
	storage    storage.Storage
	evaluator  *batch.Evaluator

	clock            func() time.Time
	batchMaxPackages int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithEvaluator sets the batch evaluator used by the batch and compare endpoints.
func WithEvaluator(evaluator *batch.Evaluator) HandlerOption {
	return func(h *Handler) {
		h.evaluator = evaluator
	}
}

// WithBatchMaxPackages bounds the number of packages accepted by one batch request.
func WithBatchMaxPackages(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.batchMaxPackages = limit
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc calculator.Calculator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		storage:    store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		batchMaxPackages: defaultBatchMaxPackages,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.evaluator == nil {
		h.evaluator = batch.NewEvaluator(calc, 0)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListContainers(w http.ResponseWriter, r *http.Request) {
	_ = r
	profiles, err := h.storage.ListProfiles()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containersResponse{Containers: profiles})
}

func (h *Handler) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	profile, err := h.storage.GetProfile(chi.URLParam(r, "id"))
	if err != nil {
		writeCalculationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleAddContainer(w http.ResponseWriter, r *http.Request) {
	var profile calculator.ContainerProfile
	if !decodeJSON(w, r, &profile) {
		return
	}

	if err := h.storage.AddProfile(profile); err != nil {
		writeCalculationError(w, err)
		return
	}

	stored, err := h.storage.GetProfile(profile.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Package == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "package is required")
		return
	}

	profile, err := h.resolveProfile(req.Container, req.Profile)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	spec := req.Package.spec()
	start := time.Now()
	result, err := h.calculator.CalculateLoad(profile, spec)
	elapsed := time.Since(start)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	resp := calculateResponse{
		Container:         profile,
		Package:           spec,
		Result:            result,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Packages) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "packages must contain at least one package")
		return
	}
	if len(req.Packages) > h.batchMaxPackages {
		writeError(w, http.StatusRequestEntityTooLarge, "Batch too large",
			fmt.Sprintf("at most %d packages are accepted per request", h.batchMaxPackages),
			"Split the batch into several requests")
		return
	}

	profile, err := h.resolveProfile(req.Container, req.Profile)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	items := make([]batch.Item, 0, len(req.Packages))
	for i, p := range req.Packages {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			label = fmt.Sprintf("package-%d", i+1)
		}
		if p.Quantity < 0 {
			writeCalculationError(w, fmt.Errorf("%s: %w", label, calculator.ErrInvalidQuantity))
			return
		}
		items = append(items, batch.Item{Label: label, Package: p.spec(), Quantity: p.Quantity})
	}

	start := time.Now()
	outcomes, err := h.evaluator.EvaluatePackages(r.Context(), profile, items)
	elapsed := time.Since(start)
	if err != nil {
		writeContextError(w, err)
		return
	}

	resp := batchResponse{
		Container:         profile,
		Results:           toItemResponses(outcomes),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Package == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "package is required")
		return
	}
	if req.Quantity < 0 {
		writeCalculationError(w, calculator.ErrInvalidQuantity)
		return
	}

	spec := req.Package.spec()
	if err := calculator.ValidatePackage(spec); err != nil {
		writeCalculationError(w, err)
		return
	}

	profiles, err := h.storage.ListProfiles()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	outcomes, err := h.evaluator.CompareProfiles(r.Context(), profiles, batch.Item{Package: spec, Quantity: req.Quantity})
	if err != nil {
		writeContextError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{Package: spec, Results: toItemResponses(outcomes)})
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Package == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "package is required")
		return
	}

	profile, err := h.resolveProfile(req.Container, req.Profile)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	plan, err := h.calculator.PlanShipment(profile, req.Package.spec(), req.Quantity)
	if err != nil {
		writeCalculationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, planResponse{Container: profile, Plan: plan})
}

// resolveProfile prefers an inline profile over a catalogue lookup.
func (h *Handler) resolveProfile(id string, inline *calculator.ContainerProfile) (calculator.ContainerProfile, error) {
	if inline != nil {
		if err := calculator.ValidateProfile(*inline); err != nil {
			return calculator.ContainerProfile{}, err
		}
		return *inline, nil
	}
	if strings.TrimSpace(id) == "" {
		return calculator.ContainerProfile{}, errContainerRequired
	}
	return h.storage.GetProfile(id)
}

var errContainerRequired = errors.New("container or profile is required")

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// packagePayload mirrors calculator.PackageSpec; omitted stackable means true.
type packagePayload struct {
	Label     string  `json:"label,omitempty"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Stackable *bool   `json:"stackable,omitempty"`
	Quantity  int     `json:"quantity,omitempty"`
}

func (p packagePayload) spec() calculator.PackageSpec {
	stackable := true
	if p.Stackable != nil {
		stackable = *p.Stackable
	}
	return calculator.PackageSpec{
		Length:    p.Length,
		Width:     p.Width,
		Height:    p.Height,
		Weight:    p.Weight,
		Stackable: stackable,
	}
}

type calculateRequest struct {
	Container string                       `json:"container"`
	Profile   *calculator.ContainerProfile `json:"profile"`
	Package   *packagePayload              `json:"package"`
}

type batchRequest struct {
	Container string                       `json:"container"`
	Profile   *calculator.ContainerProfile `json:"profile"`
	Packages  []packagePayload             `json:"packages"`
}

type compareRequest struct {
	Package  *packagePayload `json:"package"`
	Quantity int             `json:"quantity"`
}

type planRequest struct {
	Container string                       `json:"container"`
	Profile   *calculator.ContainerProfile `json:"profile"`
	Package   *packagePayload              `json:"package"`
	Quantity  int                          `json:"quantity"`
}

type calculateResponse struct {
	Container         calculator.ContainerProfile `json:"container"`
	Package           calculator.PackageSpec      `json:"package"`
	Result            calculator.LoadResult       `json:"result"`
	CalculationTimeMs int64                       `json:"calculationTimeMs"`
}

type itemResponse struct {
	Label     string                   `json:"label,omitempty"`
	Container string                   `json:"container"`
	Result    *calculator.LoadResult   `json:"result,omitempty"`
	Plan      *calculator.ShipmentPlan `json:"plan,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Field     string                   `json:"field,omitempty"`
}

type batchResponse struct {
	Container         calculator.ContainerProfile `json:"container"`
	Results           []itemResponse              `json:"results"`
	CalculationTimeMs int64                       `json:"calculationTimeMs"`
}

type compareResponse struct {
	Package calculator.PackageSpec `json:"package"`
	Results []itemResponse         `json:"results"`
}

type planResponse struct {
	Container calculator.ContainerProfile `json:"container"`
	Plan      calculator.ShipmentPlan     `json:"plan"`
}

type containersResponse struct {
	Containers []calculator.ContainerProfile `json:"containers"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toItemResponses(outcomes []batch.Outcome) []itemResponse {
	out := make([]itemResponse, 0, len(outcomes))
	for _, o := range outcomes {
		item := itemResponse{Label: o.Label, Container: o.ContainerID}
		if o.Err != nil {
			item.Error = o.Err.Error()
			var verr *calculator.ValidationError
			if errors.As(o.Err, &verr) {
				item.Field = verr.Field
			}
		} else {
			result := o.Result
			item.Result = &result
			item.Plan = o.Plan
		}
		out = append(out, item)
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Invalid request", "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

// writeJSON encodes payload before committing the status so an unencodable
// payload becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal error","details":"response could not be encoded"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

// writeCalculationError maps domain errors to HTTP responses.
func writeCalculationError(w http.ResponseWriter, err error) {
	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid dimension",
			Details: err.Error(),
			Field:   verr.Field,
		})
	case errors.Is(err, calculator.ErrInvalidDimension):
		writeError(w, http.StatusBadRequest, "Invalid dimension", err.Error())
	case errors.Is(err, calculator.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, errContainerRequired):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, calculator.ErrDoesNotFit):
		writeError(w, http.StatusUnprocessableEntity, "Package does not fit", err.Error(),
			"Choose a larger container or pre-orient the package along the container's longest axis")
	case errors.Is(err, storage.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Unknown container", err.Error())
	case errors.Is(err, storage.ErrProfileExists):
		writeError(w, http.StatusConflict, "Container already exists", err.Error())
	case errors.Is(err, storage.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, "Invalid container", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func writeContextError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
		return
	}
	writeInternalError(w, err)
}
