package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brunolopes/shiftcore/internal/calendar"
	"github.com/brunolopes/shiftcore/internal/coreerr"
	"github.com/brunolopes/shiftcore/internal/explain"
	"github.com/brunolopes/shiftcore/internal/normalize"
	"github.com/brunolopes/shiftcore/internal/resultcache"
	"github.com/brunolopes/shiftcore/internal/signature"
	"github.com/brunolopes/shiftcore/internal/solver/diagnose"
	"github.com/brunolopes/shiftcore/internal/solver/driver"
)

// Handler holds the dependencies the routes share, the same role the
// teacher's handlers.Handler plays for its db/holidayService pair.
type Handler struct {
	drv       *driver.Driver
	cache     *resultcache.Cache // nil disables result caching
	explainer *explain.Explainer // nil disables cause explanations
	logger    *log.Logger
}

// NewHandler wires a Handler. cache and explainer may both be nil.
func NewHandler(drv *driver.Driver, cache *resultcache.Cache, explainer *explain.Explainer, logger *log.Logger) *Handler {
	return &Handler{drv: drv, cache: cache, explainer: explainer, logger: logger}
}

// Health reports liveness, mirroring the teacher's /api/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Solve runs a full solve for the posted Config, serving a cached
// Schedule when one exists for the same InputSignature.
func (h *Handler) Solve(c *gin.Context) {
	var req configDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := req.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sig := signature.Compute(cfg)

	if h.cache != nil {
		if sched, warnings, ok, err := h.cache.Get(sig); err != nil {
			h.logger.Printf("solve: cache lookup failed: %v", err)
		} else if ok {
			c.JSON(http.StatusOK, gin.H{
				"signature": sig,
				"cached":    true,
				"schedule":  newScheduleResponse(sched),
				"warnings":  newWarningResponses(warnings),
			})
			return
		}
	}

	sched, warnings, err := h.drv.Solve(c.Request.Context(), cfg, nil)
	if err != nil {
		h.respondSolveError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Put(sig, sched, warnings); err != nil {
			h.logger.Printf("solve: cache write failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"signature": sig,
		"cached":    false,
		"schedule":  newScheduleResponse(sched),
		"warnings":  newWarningResponses(warnings),
	})
}

// Diagnose normalizes and diagnoses the posted Config directly,
// without attempting a full solve first, and optionally asks the
// configured Explainer for a prose summary of the causes.
func (h *Handler) Diagnose(c *gin.Context) {
	var req configDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := req.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nc, _, err := normalize.Normalize(cfg)
	if err != nil {
		h.respondSolveError(c, err)
		return
	}
	cal, err := calendar.Build(nc.Start, nc.End, nc.IsPublicHoliday)
	if err != nil {
		h.respondSolveError(c, err)
		return
	}

	causes := diagnose.Diagnose(c.Request.Context(), nc, cal)
	resp := gin.H{"causes": newCauseResponses(causes)}

	if h.explainer != nil && len(causes) > 0 {
		explanation, err := h.explainer.Explain(c.Request.Context(), causes)
		if err != nil {
			h.logger.Printf("diagnose: explain failed: %v", err)
		} else {
			resp["explanation"] = explanation
		}
	}

	c.JSON(http.StatusOK, resp)
}

// respondSolveError maps a coreerr.Error onto an HTTP status and body.
func (h *Handler) respondSolveError(c *gin.Context, err error) {
	var ce *coreerr.Error
	if !errors.As(err, &ce) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch ce.Kind {
	case coreerr.KindInvalidRange, coreerr.KindUnknownToken:
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Message, "kind": ce.Kind})
	case coreerr.KindInfeasible:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  ce.Message,
			"kind":   ce.Kind,
			"causes": newCauseResponses(ce.Causes),
		})
	case coreerr.KindTimeout:
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": ce.Message, "kind": ce.Kind})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": ce.Message, "kind": ce.Kind})
	}
}
