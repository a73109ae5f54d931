package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"BuyBio/internal/domain/models"
	apimetrics "BuyBio/internal/service/metrics"
	"BuyBio/internal/services/analysis"
	"BuyBio/internal/usecase"
	xhttp "BuyBio/pkg/http"
	xlogger "BuyBio/pkg/logger"
)

// Analyzer is the cohort analysis surface served over HTTP.
type Analyzer interface {
	AnalyzeAll(ctx context.Context) (*models.BatchAnalysis, error)
	AnalyzeByTag(ctx context.Context, tag int) (*models.TagAnalysis, error)
	AnalyzeAllTags(ctx context.Context) (map[int]*models.TagAnalysis, error)
	RankBuyByTag(ctx context.Context, tag, limit int) (*models.TagRanking, error)
	RankBuyAll(ctx context.Context, limit int) (*models.Ranking, error)
}

// AnalysisEchoHandler serves the analysis and ranking endpoints.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	analyzer Analyzer
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analyzer Analyzer) *AnalysisEchoHandler {
	apimetrics.Register()
	return &AnalysisEchoHandler{logger: logger, analyzer: analyzer}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/analyze", h.AnalyzeAll)
	e.GET("/analyze/tags", h.AnalyzeAllTags)
	e.GET("/analyze/tags/:tag", h.AnalyzeByTag)
	e.GET("/recommendations", h.RankAll)
	e.GET("/recommendations/tags/:tag", h.RankByTag)
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *AnalysisEchoHandler) AnalyzeAll(c echo.Context) error {
	defer observe("analyze_all", time.Now())

	res, err := h.analyzer.AnalyzeAll(c.Request().Context())
	if err != nil {
		return h.fail(c, "analyze_all", err)
	}
	apimetrics.ReturnedResults.WithLabelValues("analyze_all").Observe(float64(res.Count))
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) AnalyzeByTag(c echo.Context) error {
	defer observe("analyze_tag", time.Now())

	req := &models.TagRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.AnalyzeByTag(c.Request().Context(), req.Tag)
	if err != nil {
		return h.fail(c, "analyze_tag", err)
	}
	apimetrics.ReturnedResults.WithLabelValues("analyze_tag").Observe(float64(res.TotalCount))
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) AnalyzeAllTags(c echo.Context) error {
	defer observe("analyze_all_tags", time.Now())

	res, err := h.analyzer.AnalyzeAllTags(c.Request().Context())
	if err != nil {
		return h.fail(c, "analyze_all_tags", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) RankByTag(c echo.Context) error {
	defer observe("rank_tag", time.Now())

	req := &models.RankByTagRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.RankBuyByTag(c.Request().Context(), req.Tag, req.Limit)
	if err != nil {
		return h.fail(c, "rank_tag", err)
	}
	apimetrics.ReturnedResults.WithLabelValues("rank_tag").Observe(float64(res.ReturnedCount))
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) RankAll(c echo.Context) error {
	defer observe("rank_all", time.Now())

	req := &models.RankAllRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.RankBuyAll(c.Request().Context(), req.Limit)
	if err != nil {
		return h.fail(c, "rank_all", err)
	}
	apimetrics.ReturnedResults.WithLabelValues("rank_all").Observe(float64(res.ReturnedCount))
	return xhttp.SuccessResponse(c, res)
}

// fail maps usecase errors onto the error envelope.
func (h *AnalysisEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	apimetrics.EndpointErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	h.logger.Error("analysis request failed",
		xlogger.String("endpoint", endpoint),
		xlogger.String("code", appErr.Code),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, analysis.ErrMetadataUnavailable):
		return xhttp.ServiceUnavailableError("ERR_METADATA_UNAVAILABLE", "company metadata is unavailable").WithError(err)
	case errors.Is(err, usecase.ErrInvalidTag):
		return xhttp.BadRequestErrorf("tag", "tag must be between %d and %d", models.MinTag, models.MaxTag).
			WithParam("min", models.MinTag).
			WithParam("max", models.MaxTag).
			WithError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return xhttp.NewAppError("ERR_TIMEOUT", "", "request timed out", http.StatusGatewayTimeout).WithError(err)
	default:
		return xhttp.InternalError("analysis failed").WithError(err)
	}
}

func observe(endpoint string, start time.Time) {
	apimetrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
