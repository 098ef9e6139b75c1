package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/landscan/internal/domain"
	"github.com/kailas-cloud/landscan/internal/domain/region"
	"github.com/kailas-cloud/landscan/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/landscan/internal/logger"
	"github.com/kailas-cloud/landscan/internal/transport/xlsx"
	healthuc "github.com/kailas-cloud/landscan/internal/usecase/health"
	searchuc "github.com/kailas-cloud/landscan/internal/usecase/search"
	"github.com/kailas-cloud/landscan/internal/version"
)

const (
	maxSearchBodyBytes   = 64 << 10
	maxDownloadBodyBytes = 16 << 20

	defaultSearchTimeout = 100 * time.Second

	searchIDHeader = "X-Search-ID"
	msgNoData      = "데이터가 없습니다"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the listing search API.
type Server struct {
	regions       *region.Catalog
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	searchSchema  *jsonschema.Schema
	searchTimeout time.Duration
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. searchTimeout bounds a single search;
// zero selects the default.
func NewServer(
	regions *region.Catalog,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	searchTimeout time.Duration,
) (*Server, error) {
	schema, err := compileSchema(searchRequestSchema)
	if err != nil {
		return nil, err
	}
	if searchTimeout <= 0 {
		searchTimeout = defaultSearchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		regions:       regions,
		search:        search,
		health:        health,
		logger:        logger,
		searchSchema:  schema,
		searchTimeout: searchTimeout,
		now:           time.Now,
	}
	s.errorHandlers = []errorHandler{
		detailHandler(domain.ErrInvalidQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrRegionNotFound, http.StatusNotFound),
	}
	return s, nil
}

// ListRegions handles GET /api/regions.
func (s *Server) ListRegions(w http.ResponseWriter, _ *http.Request) {
	regions := s.regions.List()
	items := make([]regionItem, len(regions))
	for i, r := range regions {
		items[i] = regionToItem(r)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetRegion handles GET /api/regions/{code}.
func (s *Server) GetRegion(w http.ResponseWriter, r *http.Request) {
	reg, err := s.regions.Get(chi.URLParam(r, "code"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regionToItem(reg))
}

// SearchListings handles POST /api/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSearchBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateBody(s.searchSchema, body); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err))
		return
	}

	q, err := query.New(req.params())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, q)
}

// SearchListingsByQuery handles GET /api/search. List parameters repeat:
// ?property_types=D01&property_types=D02.
func (s *Server) SearchListingsByQuery(w http.ResponseWriter, r *http.Request) {
	var params searchQueryParams
	values := r.URL.Query()

	// Optional parameters bind through a second pointer, as generated oapi code does.
	bindings := []struct {
		name string
		dest any
	}{
		{"region_code", &params.RegionCode},
		{"property_types", &params.PropertyTypes},
		{"trade_types", &params.TradeTypes},
		{"min_area", &params.MinArea},
		{"max_area", &params.MaxArea},
		{"max_results", &params.MaxResults},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			s.handleDomainError(w, r, fmt.Errorf("%w: invalid query parameter %s", domain.ErrInvalidQuery, b.name))
			return
		}
	}

	q, err := query.New(params.request().params())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, q)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, q query.Query) {
	ctx, cancel := context.WithTimeout(r.Context(), s.searchTimeout)
	defer cancel()

	res := s.search.Search(ctx, q)
	if res.Partial {
		logpkg.FromContext(r.Context()).Warn("search returned partial result",
			zap.String("search_id", res.ID),
			zap.Int("results", len(res.Listings)),
			zap.Error(ctx.Err()),
		)
	}

	w.Header().Set(searchIDHeader, res.ID)
	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Count:   len(res.Listings),
		Partial: res.Partial,
		Data:    res.Listings,
	})
}

// DownloadListings handles POST /api/download.
func (s *Server) DownloadListings(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDownloadBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, msgNoData)
		return
	}

	var buf bytes.Buffer
	if err := xlsx.Write(&buf, req.Data); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("render workbook: %w", err))
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": xlsx.Filename(s.now())})
	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// sentinelHandler returns an errorHandler that answers with the sentinel's own message.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error())
		return true
	}
}

// detailHandler is like sentinelHandler but exposes the full error text.
// Only for sentinels whose wrapping messages are built from client input.
func detailHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
