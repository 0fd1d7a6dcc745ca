// Package petitionstore is the HTTP adapter for the collaborator petition
// store, the REST backend that owns petition records.
package petitionstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.PetitionStore against the /pqs REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// FindByRadicado fetches a single petition by its tracking number.
func (c *Client) FindByRadicado(ctx context.Context, radicado string) (*domain.Petition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pqs/solicitudes/"+url.PathEscape(radicado), nil)
	if err != nil {
		return nil, fmt.Errorf("find petition: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("find petition: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrPetitionNotFound
	default:
		return nil, fmt.Errorf("find petition: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}

	var wp wirePetition
	if err := json.NewDecoder(resp.Body).Decode(&wp); err != nil {
		return nil, fmt.Errorf("find petition: decode: %w", err)
	}
	return toDomainPetition(wp), nil
}

// List queries petitions with the given filters and paging.
func (c *Client) List(ctx context.Context, input ports.ListPetitionsInput) (*ports.ListPetitionsResult, error) {
	q := url.Values{}
	if input.Status != "" {
		q.Set("estado", toWireStatus(input.Status))
	}
	if input.TypeID != "" {
		q.Set("tipo", input.TypeID)
	}
	if input.RequesterID != "" {
		q.Set("solicitanteId", input.RequesterID)
	}
	if input.ResponsibleID != "" {
		q.Set("responsableId", input.ResponsibleID)
	}
	if !input.DateFrom.IsZero() {
		q.Set("desde", input.DateFrom.UTC().Format("2006-01-02"))
	}
	if !input.DateTo.IsZero() {
		q.Set("hasta", input.DateTo.UTC().Format("2006-01-02"))
	}
	q.Set("page", strconv.Itoa(input.Page))
	q.Set("limit", strconv.Itoa(input.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pqs/solicitudes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("list petitions: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list petitions: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list petitions: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}

	var wl wireList
	if err := json.NewDecoder(resp.Body).Decode(&wl); err != nil {
		return nil, fmt.Errorf("list petitions: decode: %w", err)
	}

	items := make([]domain.Petition, 0, len(wl.Items))
	for _, wp := range wl.Items {
		items = append(items, *toDomainPetition(wp))
	}

	return &ports.ListPetitionsResult{
		Items:      items,
		Total:      wl.Total,
		Page:       wl.Page,
		Limit:      wl.Limit,
		TotalPages: wl.TotalPages,
	}, nil
}

// SubmitTriageDecision posts the triage outcome. The backend is the arbiter:
// a non-success answer means the decision did not happen.
func (c *Client) SubmitTriageDecision(ctx context.Context, decision ports.TriageDecision) error {
	payload := wireDecision{
		RadicadorID: decision.RadicadorID,
		SolicitudID: decision.SolicitudID,
		IsAprobada:  decision.Approved,
		Comentario:  decision.Comment,
	}
	if decision.ResponsableID != "" {
		payload.ResponsableID = &decision.ResponsableID
	}
	if decision.RejectionReason != "" {
		payload.MotivoRechazo = decision.RejectionReason
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("submit decision: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pqs/aprobacion_pq", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit decision: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit decision: %w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		// The petition moved on under us: surface it, never revert silently.
		return fmt.Errorf("submit decision: backend rejected: %w", domain.ErrInvalidTransition)
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrPetitionNotFound
	default:
		return fmt.Errorf("submit decision: status %d: %w", resp.StatusCode, domain.ErrServiceUnavailable)
	}
}
