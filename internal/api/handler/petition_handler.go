package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

const dateParamLayout = "2006-01-02"

// PetitionHandler handles the read surface: petition lists and detail views.
type PetitionHandler struct {
	service ports.PetitionService
}

func NewPetitionHandler(service ports.PetitionService) *PetitionHandler {
	return &PetitionHandler{service: service}
}

// --- Request / Response types ---

type petitionListItem struct {
	Radicado    string `json:"radicado"`
	Type        string `json:"type"`
	Requester   string `json:"requester"`
	Responsible string `json:"responsible,omitempty"`
	Status      string `json:"status"`
	FiledAt     string `json:"filed_at"`
	DueAt       string `json:"due_at"`
	Remaining   string `json:"remaining"`
}

type listPetitionsResponse struct {
	Items      []petitionListItem `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type petitionDetailResponse struct {
	domain.Petition
	DaysOverdue int              `json:"days_overdue"`
	Remaining   domain.Remaining `json:"remaining"`
	// RemainingLabel is the display form list and detail screens render.
	RemainingLabel string `json:"remaining_label"`
}

// List handles GET /v1/petitions.
//
// @Summary      List petitions
// @Tags         petitions
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Lifecycle status filter"
// @Param        type         query     string  false  "Petition type id"
// @Param        responsible  query     string  false  "Assigned handler id"
// @Param        from         query     string  false  "Filed on or after (YYYY-MM-DD)"
// @Param        to           query     string  false  "Filed on or before (YYYY-MM-DD)"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  listPetitionsResponse
// @Failure      400          {object}  map[string]string
// @Failure      403          {object}  map[string]string
// @Router       /v1/petitions [get]
func (h *PetitionHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	input, err := listInput(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), sess, input)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	items := make([]petitionListItem, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toListItem(&result.Items[i], now))
	}

	return c.JSON(http.StatusOK, listPetitionsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get handles GET /v1/petitions/:radicado.
//
// @Summary      Get a petition by filing number
// @Tags         petitions
// @Produce      json
// @Security     BearerAuth
// @Param        radicado  path      string  true  "Filing number (e.g. PQ-2025-0042)"
// @Success      200       {object}  petitionDetailResponse
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /v1/petitions/{radicado} [get]
func (h *PetitionHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), sess, c.Param("radicado"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, petitionDetailResponse{
		Petition:       detail.Petition,
		DaysOverdue:    detail.DaysOverdue,
		Remaining:      detail.Remaining,
		RemainingLabel: detail.Remaining.String(),
	})
}

func listInput(c echo.Context) (ports.ListPetitionsInput, error) {
	input := ports.ListPetitionsInput{
		Status:        domain.PetitionStatus(c.QueryParam("status")),
		TypeID:        c.QueryParam("type"),
		ResponsibleID: c.QueryParam("responsible"),
	}

	var err error
	if input.DateFrom, err = dateParam(c, "from"); err != nil {
		return input, err
	}
	if input.DateTo, err = dateParam(c, "to"); err != nil {
		return input, err
	}
	if input.Page, err = intParam(c, "page"); err != nil {
		return input, err
	}
	if input.Limit, err = intParam(c, "limit"); err != nil {
		return input, err
	}
	return input, nil
}

func dateParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date (YYYY-MM-DD)")
	}
	return t, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

func toListItem(p *domain.Petition, now time.Time) petitionListItem {
	item := petitionListItem{
		Radicado:  p.Radicado,
		Type:      p.Type.Name,
		Requester: p.Requester.DisplayName,
		Status:    string(p.Status),
		FiledAt:   p.FiledAt.UTC().Format(dateParamLayout),
		DueAt:     p.EstimatedResolutionAt.UTC().Format(dateParamLayout),
		Remaining: domain.DaysRemaining(now, p.EstimatedResolutionAt).String(),
	}
	if p.Responsible != nil {
		item.Responsible = p.Responsible.DisplayName
	}
	return item
}
