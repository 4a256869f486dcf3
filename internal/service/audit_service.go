package service

import (
	"context"
	"time"

	"backend/internal/repository"
)

type AuditEntryResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuditService interface {
	List(ctx context.Context, offset, limit int) ([]AuditEntryResponse, int64, error)
}

type auditService struct {
	audit repository.AuditRepository
}

func NewAuditService(audit repository.AuditRepository) AuditService {
	return &auditService{audit: audit}
}

func (s *auditService) List(ctx context.Context, offset, limit int) ([]AuditEntryResponse, int64, error) {
	entries, total, err := s.audit.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		res := AuditEntryResponse{
			ID:         e.ID.String(),
			Action:     e.Action,
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			CreatedAt:  e.CreatedAt,
		}
		if e.UserID != nil {
			res.UserID = e.UserID.String()
		}
		responses = append(responses, res)
	}
	return responses, total, nil
}
