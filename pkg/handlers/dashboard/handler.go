package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/adapters"
	"github.com/de-tools/shopping-atlas/pkg/models/api"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/services/charts"
	"github.com/de-tools/shopping-atlas/pkg/services/export"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultRowsLimit = 100
	maxRowsLimit     = 1000

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errBadRequest = errors.New("bad request")

// Dashboard is the read side the handlers need from the rendering service.
type Dashboard interface {
	Options() domain.FilterOptions
	ExtraFields() []string
	Render(ctx context.Context, spec domain.FilterSpec) (domain.ViewModel, error)
}

type Handler struct {
	dashboard Dashboard
}

func NewHandler(dashboard Dashboard) *Handler {
	return &Handler{dashboard: dashboard}
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, adapters.MapFilterOptionsDomainToApi(h.dashboard.Options()))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := ParseFilterQuery(r.URL.Query())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	h.renderDashboard(w, r, req)
}

func (h *Handler) PostDashboard(w http.ResponseWriter, r *http.Request) {
	var req api.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: decode filters: %v", errBadRequest, err))
		return
	}
	h.renderDashboard(w, r, req)
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, req api.FilterRequest) {
	vm, err := h.render(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, adapters.MapViewModelDomainToApi(vm))
}

func (h *Handler) GetRows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	offset, err := intParam(query, "offset", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := intParam(query, "limit", defaultRowsLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if offset < 0 || limit < 0 {
		writeError(ctx, w, fmt.Errorf("%w: offset and limit must not be negative", errBadRequest))
		return
	}
	limit = min(limit, maxRowsLimit)

	req, err := ParseFilterQuery(query)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	vm, err := h.render(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := vm.View.Rows
	start := min(offset, len(rows))
	end := min(start+limit, len(rows))

	writeJSON(ctx, w, api.RowsPage{
		Total:  len(rows),
		Offset: offset,
		Limit:  limit,
		Rows:   adapters.MapPurchasesDomainToApi(rows[start:end]),
	})
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	name, err := domain.ParseChartName(chi.URLParam(r, "chart"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req, err := ParseFilterQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	vm, err := h.render(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, name, vm.Aggregates); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Str("chart", string(name)).Msg("failed to write chart")
	}
}

func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	req, err := ParseFilterQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	vm, err := h.render(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, vm, h.dashboard.ExtraFields()); err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="shopping-atlas.xlsx"`)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to write workbook")
	}
}

func (h *Handler) render(ctx context.Context, req api.FilterRequest) (domain.ViewModel, error) {
	spec := adapters.MapFilterRequestToDomain(req, h.dashboard.Options())
	return h.dashboard.Render(ctx, spec)
}

// ParseFilterQuery reads filters from a query string. A missing key selects
// everything; a key given only with empty values selects nothing.
func ParseFilterQuery(query url.Values) (api.FilterRequest, error) {
	var (
		req api.FilterRequest
		err error
	)
	if req.AgeMin, err = optionalInt(query, "age_min"); err != nil {
		return api.FilterRequest{}, err
	}
	if req.AgeMax, err = optionalInt(query, "age_max"); err != nil {
		return api.FilterRequest{}, err
	}
	if req.AmountMin, err = optionalDecimal(query, "amount_min"); err != nil {
		return api.FilterRequest{}, err
	}
	if req.AmountMax, err = optionalDecimal(query, "amount_max"); err != nil {
		return api.FilterRequest{}, err
	}
	req.Genders = selection(query, "gender")
	req.Categories = selection(query, "category")
	req.Items = selection(query, "item")
	return req, nil
}

func selection(query url.Values, key string) []string {
	values, ok := query[key]
	if !ok {
		return nil
	}
	selected := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	return selected
}

func optionalInt(query url.Values, key string) (*int, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", errBadRequest, key, raw)
	}
	return &v, nil
}

func optionalDecimal(query url.Values, key string) (*decimal.Decimal, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", errBadRequest, key, raw)
	}
	return &v, nil
}

func intParam(query url.Values, key string, fallback int) (int, error) {
	v, err := optionalInt(query, key)
	if err != nil || v == nil {
		return fallback, err
	}
	return *v, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, domain.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnknownChart):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
