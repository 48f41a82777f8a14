package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeisseler/da-bess-v2/internal/api/models"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/pipeline"
	"github.com/timeisseler/da-bess-v2/internal/series"
	"github.com/timeisseler/da-bess-v2/internal/window"
)

// OptimizeHandler handles optimization requests
type OptimizeHandler struct{}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler() *OptimizeHandler {
	return &OptimizeHandler{}
}

// RunOptimization handles POST /api/v1/optimize
func (h *OptimizeHandler) RunOptimization(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	params := model.SystemParams{
		CapacityKWh:   req.System.CapacityKWh,
		PowerKW:       req.System.PowerKW,
		AvgPriceCtKWh: req.System.AvgPriceCtKWh,
		DailyCycles:   req.System.DailyCycles,
	}
	if err := params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_SYSTEM",
				Message: err.Error(),
			},
		})
		return
	}

	engine := pipeline.New(params, buildOptions(req.Pipeline))
	result, err := engine.Run(buildInputs(req.Inputs))
	if err != nil {
		status := http.StatusInternalServerError
		code := "OPTIMIZE_ERROR"
		var alignErr *series.AlignmentError
		if errors.As(err, &alignErr) {
			status = http.StatusBadRequest
			code = "SERIES_MISALIGNED"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, buildOptimizeResponse(result, req.Options))
}

func buildInputs(in models.SeriesInputs) pipeline.Inputs {
	load := model.Series(in.Load)
	pv := model.Series(in.PV)
	if len(pv) == 0 {
		pv = zeroSeries(load)
	}
	baseline := model.Series(in.Baseline)
	if len(baseline) == 0 {
		baseline = zeroSeries(load)
	}
	return pipeline.Inputs{
		Load:     load,
		PV:       pv,
		Prices:   model.Series(in.Prices),
		Baseline: model.ScheduleFromSeries(baseline),
	}
}

func buildOptions(p models.PipelineConfig) pipeline.Options {
	opts := pipeline.Options{
		Detector:          p.Detector,
		MinWindowLen:      p.MinWindowLen,
		SoCTolerance:      p.SoCTolerance,
		ActivityThreshold: p.ActivityThreshold,
		MaxWindowHours:    p.MaxWindowHours,
		RepairBaseline:    p.RepairBaseline,
	}
	if opts.Detector == "" {
		opts.Detector = pipeline.DetectorConstantSoC
	}
	if opts.MinWindowLen == 0 {
		opts.MinWindowLen = window.DefaultMinLen
	}
	return opts
}

func buildOptimizeResponse(r *pipeline.Result, opts models.OptimizeOptions) models.OptimizeResponse {
	resp := models.OptimizeResponse{
		Status:    "completed",
		Summary:   r.Summary,
		MergeKPIs: r.Merge.KPIs,
		Decisions: r.Merge.Decisions,
		Diagnostics: models.DiagnosticsView{
			WindowsTotal:       r.Diagnostics.WindowsTotal,
			WindowsTooShort:    r.Diagnostics.TooShort,
			WindowsNoPotential: r.Diagnostics.NoPotential,
			Discarded:          r.Diagnostics.Discarded,
			Generated:          r.Diagnostics.Generated,
		},
	}
	if opts.IncludeSchedule {
		resp.Schedule = r.Merge.Schedule
	}
	if opts.IncludeFlexband {
		resp.Flexband = r.Flexband
	}
	if opts.IncludeImplementations {
		resp.Implementations = r.Merge.Implemented
	}
	return resp
}

func zeroSeries(like model.Series) model.Series {
	out := make(model.Series, len(like))
	for i, p := range like {
		out[i] = model.Point{Index: p.Index, Timestamp: p.Timestamp}
	}
	return out
}
