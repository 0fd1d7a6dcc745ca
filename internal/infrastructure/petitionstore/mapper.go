package petitionstore

import (
	"time"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// Wire types. The backend keeps its own Spanish vocabulary for statuses and
// field names; this file is the only place both vocabularies meet.

type wireActor struct {
	ID          string `json:"id"`
	Role        string `json:"rol"`
	DisplayName string `json:"nombre"`
}

type wireType struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
	SLA  int    `json:"diasHabiles"`
}

type wireEvent struct {
	From      string    `json:"desde"`
	To        string    `json:"hasta"`
	Actor     wireActor `json:"actor"`
	Timestamp time.Time `json:"fecha"`
	Note      string    `json:"nota,omitempty"`
}

type wirePetition struct {
	ID          string      `json:"id"`
	Radicado    string      `json:"radicado"`
	Type        wireType    `json:"tipo"`
	Requester   wireActor   `json:"solicitante"`
	Responsible *wireActor  `json:"responsable,omitempty"`
	Status      string      `json:"estado"`
	FiledAt     time.Time   `json:"fechaRadicacion"`
	EstimatedAt time.Time   `json:"fechaEstimadaRespuesta"`
	ResolvedAt  *time.Time  `json:"fechaRespuesta,omitempty"`
	History     []wireEvent `json:"historial"`
}

type wireList struct {
	Items      []wirePetition `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

type wireDecision struct {
	RadicadorID   string  `json:"radicadorId"`
	SolicitudID   string  `json:"solicitudId"`
	ResponsableID *string `json:"responsableId"`
	IsAprobada    bool    `json:"isAprobada"`
	Comentario    string  `json:"comentario"`
	MotivoRechazo string  `json:"motivoRechazo,omitempty"`
}

// statusFromWire maps the backend's estado tokens to lifecycle states.
var statusFromWire = map[string]domain.PetitionStatus{
	"radicada":    domain.StatusFiled,
	"en_revision": domain.StatusPendingTriage,
	"aprobada":    domain.StatusAccepted,
	"rechazada":   domain.StatusRejected,
	"en_tramite":  domain.StatusInProgress,
	"resuelta":    domain.StatusResolved,
}

var statusToWire = func() map[domain.PetitionStatus]string {
	out := make(map[domain.PetitionStatus]string, len(statusFromWire))
	for wire, status := range statusFromWire {
		out[status] = wire
	}
	return out
}()

func toDomainStatus(estado string) domain.PetitionStatus {
	if s, ok := statusFromWire[estado]; ok {
		return s
	}
	// Unknown token: pass through so the error surfaces at transition time
	// instead of being misread as a known state.
	return domain.PetitionStatus(estado)
}

func toWireStatus(status domain.PetitionStatus) string {
	if estado, ok := statusToWire[status]; ok {
		return estado
	}
	return string(status)
}

func toDomainActor(wa wireActor) domain.Actor {
	return domain.Actor{
		ID:          wa.ID,
		Role:        domain.Role(wa.Role),
		DisplayName: wa.DisplayName,
	}
}

func toDomainPetition(wp wirePetition) *domain.Petition {
	p := &domain.Petition{
		ID:       wp.ID,
		Radicado: wp.Radicado,
		Type: domain.PetitionType{
			ID:              wp.Type.ID,
			Name:            wp.Type.Name,
			SLABusinessDays: wp.Type.SLA,
		},
		Requester:             toDomainActor(wp.Requester),
		Status:                toDomainStatus(wp.Status),
		FiledAt:               wp.FiledAt,
		EstimatedResolutionAt: wp.EstimatedAt,
		ResolvedAt:            wp.ResolvedAt,
	}
	if wp.Responsible != nil {
		actor := toDomainActor(*wp.Responsible)
		p.Responsible = &actor
	}
	p.StatusHistory = make([]domain.StatusEvent, 0, len(wp.History))
	for _, we := range wp.History {
		p.StatusHistory = append(p.StatusHistory, domain.StatusEvent{
			From:      toDomainStatus(we.From),
			To:        toDomainStatus(we.To),
			Actor:     toDomainActor(we.Actor),
			Timestamp: we.Timestamp,
			Note:      we.Note,
		})
	}
	return p
}
