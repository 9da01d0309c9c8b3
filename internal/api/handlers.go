package api

import (
	"errors"
	"time"

	"github.com/bilgisen/haxsite/internal/cache"
	"github.com/bilgisen/haxsite/internal/logger"
	"github.com/bilgisen/haxsite/internal/middleware"
	"github.com/bilgisen/haxsite/internal/site"
	"github.com/bilgisen/haxsite/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// AnalyzeRequest is the JSON body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	URL string `json:"url" form:"url" validate:"required"`
}

type Handlers struct {
	store    cache.SnapshotStore
	analyzer *site.Analyzer
}

func NewHandlers(store cache.SnapshotStore, analyzer *site.Analyzer) *Handlers {
	return &Handlers{
		store:    store,
		analyzer: analyzer,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// Page handles GET /
func (h *Handlers) Page(c *fiber.Ctx) error {
	snap, err := h.store.Current(c.UserContext())
	if err != nil {
		return err
	}

	body, err := view.RenderBytes(view.NewPage(snap, true))
	if err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(body)
}

// AnalyzeForm handles POST /analyze. Failures are only logged; the browser
// is always sent back to the page, which shows whatever snapshot is current.
func (h *Handlers) AnalyzeForm(c *fiber.Ctx) error {
	// Form values point into fasthttp buffers; the snapshot outlives the request.
	input := utils.CopyString(c.FormValue("url"))
	if _, err := h.analyzer.Analyze(c.UserContext(), input); err != nil {
		logger.Get().Debug().Err(err).Str("input", input).Msg("Analyze from form failed")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// GetSite handles GET /api/v1/site
func (h *Handlers) GetSite(c *fiber.Ctx) error {
	snap, err := h.store.Current(c.UserContext())
	if err != nil {
		return err
	}
	if snap == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No site analyzed yet",
		})
	}
	return c.JSON(snap)
}

// Analyze handles POST /api/v1/analyze
func (h *Handlers) Analyze(c *fiber.Ctx) error {
	req := middleware.Body[AnalyzeRequest](c)

	snap, err := h.analyzer.Analyze(c.UserContext(), utils.CopyString(req.URL))
	switch {
	case err == nil:
		return c.JSON(snap)
	case site.IsFetchError(err):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Error fetching data",
			"msg":   err.Error(),
		})
	case errors.Is(err, site.ErrInvalidFormat):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Invalid data format",
		})
	default:
		return err
	}
}
