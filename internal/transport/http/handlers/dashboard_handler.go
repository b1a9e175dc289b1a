package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/url"

	"github.com/followup/backend/internal/core/ports"
	"github.com/followup/backend/internal/infrastructure/logger"
	"github.com/followup/backend/internal/transport/http/dto"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates/today.html
var todayPageSource string

var todayPage = template.Must(template.New("today").Parse(todayPageSource))

type todayPageData struct {
	dto.TodayView
	// Query is carried into form actions so ?tz= survives a completion.
	Query string
}

type DashboardHandler struct {
	service ports.TodayService
	logger  *logger.Logger
}

func NewDashboardHandler(service ports.TodayService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

func (h *DashboardHandler) GetToday(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "")
}

// CompleteTask redirects back to the page on success so the browser
// re-fetches the window. On failure the page is rendered with the error and
// the list as the store currently has it.
func (h *DashboardHandler) CompleteTask(c *fiber.Ctx) error {
	if _, err := resolveLocation(c, h.service.Location()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid tz"})
	}

	id := c.Params("id")
	if err := h.service.MarkComplete(c.UserContext(), id); err != nil {
		h.logger.Warnw("dashboard_complete_failed", "id", id, "error", err)
		return h.render(c, completeStatus(err), err.Error())
	}
	return c.Redirect("/dashboard/today"+queryString(c), fiber.StatusSeeOther)
}

func (h *DashboardHandler) render(c *fiber.Ctx, status int, updateErr string) error {
	loc, err := resolveLocation(c, h.service.Location())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid tz"})
	}

	window, tasks, fetchErr := h.service.DueToday(c.UserContext(), loc)
	view := dto.NewTodayView(window, loc, tasks, fetchErr)
	view.UpdateError = updateErr
	if fetchErr != nil && status == fiber.StatusOK {
		status = fiber.StatusInternalServerError
	}

	var buf bytes.Buffer
	if err := todayPage.Execute(&buf, todayPageData{TodayView: view, Query: queryString(c)}); err != nil {
		h.logger.Errorw("dashboard_render_failed", "error", err)
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func queryString(c *fiber.Ctx) string {
	tz := c.Query("tz")
	if tz == "" {
		return ""
	}
	return "?" + url.Values{"tz": []string{tz}}.Encode()
}
