package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/metrics"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

// TriageHandler handles the accept/reject decisions on petitions pending triage.
type TriageHandler struct {
	approvals ports.ApprovalService
}

func NewTriageHandler(approvals ports.ApprovalService) *TriageHandler {
	return &TriageHandler{approvals: approvals}
}

// --- Request / Response types ---

type acceptRequest struct {
	ResponsibleID string `json:"responsible_id" validate:"required"`
	Comment       string `json:"comment"`
}

type rejectRequest struct {
	Reason  string `json:"reason" validate:"required"`
	Comment string `json:"comment"`
}

// Accept handles POST /v1/petitions/:radicado/accept.
//
// @Summary      Accept a petition pending triage
// @Tags         triage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        radicado  path      string         true  "Filing number"
// @Param        body      body      acceptRequest  true  "Assignment"
// @Success      200       {object}  domain.Petition
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/petitions/{radicado}/accept [post]
func (h *TriageHandler) Accept(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req acceptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.approvals.Accept(c.Request().Context(), sess, c.Param("radicado"), req.ResponsibleID, req.Comment)
	if err != nil {
		countTransitionError(err)
		return err
	}

	metrics.TriageDecisionsTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusOK, p)
}

// Reject handles POST /v1/petitions/:radicado/reject.
//
// @Summary      Reject a petition pending triage
// @Tags         triage
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        radicado  path      string         true  "Filing number"
// @Param        body      body      rejectRequest  true  "Rejection reason"
// @Success      200       {object}  domain.Petition
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /v1/petitions/{radicado}/reject [post]
func (h *TriageHandler) Reject(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.approvals.Reject(c.Request().Context(), sess, c.Param("radicado"), req.Reason, req.Comment)
	if err != nil {
		countTransitionError(err)
		return err
	}

	metrics.TriageDecisionsTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusOK, p)
}

func countTransitionError(err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		metrics.TransitionErrorsTotal.WithLabelValues("unauthorized").Inc()
	case errors.Is(err, domain.ErrInvalidTransition):
		metrics.TransitionErrorsTotal.WithLabelValues("invalid_transition").Inc()
	case errors.Is(err, domain.ErrMissingField):
		metrics.TransitionErrorsTotal.WithLabelValues("missing_field").Inc()
	}
}
