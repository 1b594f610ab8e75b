// README: Plan handlers; HTML form and JSON API in front of the trip planner.
package handlers

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"daytrip/internal/http/middleware"
	"daytrip/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type planner interface {
	Propose(ctx context.Context, req service.PlanRequest) service.Outcome
}

type PlanHandler struct {
	planner planner
}

func NewPlanHandler(p planner) *PlanHandler {
	return &PlanHandler{planner: p}
}

type planReq struct {
	City string `json:"city" form:"city"`
	Mode string `json:"mode" form:"mode"`
}

type planResp struct {
	RunID     string `json:"run_id"`
	Itinerary string `json:"itinerary"`
}

type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	City      string
	Modes     []modeOption
	Itinerary string
	Error     string
}

func newPageData(city string, selected service.Mode) pageData {
	data := pageData{City: city}
	for _, m := range service.Modes {
		data.Modes = append(data.Modes, modeOption{Value: string(m), Label: m.Label(), Selected: m == selected})
	}
	return data
}

// Form handles GET /.
func (h *PlanHandler) Form(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", newPageData("", service.DefaultMode))
}

// Submit handles POST / from the HTML form. An empty city re-renders the form without a run.
func (h *PlanHandler) Submit(c *gin.Context) {
	var req planReq
	if err := c.ShouldBind(&req); err != nil {
		data := newPageData("", service.DefaultMode)
		data.Error = "invalid form"
		c.HTML(http.StatusBadRequest, "page.html", data)
		return
	}
	mode, err := service.ParseMode(req.Mode)
	if err != nil {
		data := newPageData(req.City, service.DefaultMode)
		data.Error = err.Error()
		c.HTML(http.StatusBadRequest, "page.html", data)
		return
	}

	data := newPageData(req.City, mode)
	out := h.planner.Propose(c.Request.Context(), service.PlanRequest{
		City:     req.City,
		Mode:     mode,
		ClientID: middleware.CallerID(c),
	})
	switch out.Status {
	case service.StatusCompleted:
		data.Itinerary = out.Itinerary
	case service.StatusFailed:
		data.Error = out.Message
	}
	c.HTML(http.StatusOK, "page.html", data)
}

// Create handles POST /api/plans.
func (h *PlanHandler) Create(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeError(c, http.StatusBadRequest, "missing city")
		return
	}
	mode, err := service.ParseMode(req.Mode)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	out := h.planner.Propose(c.Request.Context(), service.PlanRequest{
		City:     req.City,
		Mode:     mode,
		ClientID: middleware.CallerID(c),
	})
	if out.Status != service.StatusCompleted {
		writePlanError(c, out)
		return
	}
	writeJSON(c, http.StatusOK, planResp{RunID: out.RunID, Itinerary: out.Itinerary})
}
