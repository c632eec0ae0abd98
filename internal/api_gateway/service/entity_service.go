package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/delivery-settlement-ledger/internal/domain/entity"
)

// EntityServiceImpl implements the EntityService interface.
type EntityServiceImpl struct {
	entityRepo entity.Repository
	logger     *slog.Logger
}

// NewEntityService creates a new entity service.
func NewEntityService(entityRepo entity.Repository, logger *slog.Logger) EntityService {
	return &EntityServiceImpl{
		entityRepo: entityRepo,
		logger:     logger,
	}
}

// CreateEntity registers a courier or company.
func (s *EntityServiceImpl) CreateEntity(ctx context.Context, role entity.Role, name, phone string, commissionRate float64) (*entity.Entity, error) {
	ent, err := entity.NewEntity(role, name, phone, commissionRate)
	if err != nil {
		return nil, err
	}

	if err := s.entityRepo.Create(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to create entity: %w", err)
	}

	s.logger.Info("Entity created", "entity_id", ent.ID, "role", ent.Role, "name", ent.Name)
	return ent, nil
}

// GetEntity looks up an entity by id.
func (s *EntityServiceImpl) GetEntity(ctx context.Context, id uuid.UUID) (*entity.Entity, error) {
	return s.entityRepo.GetByID(ctx, id)
}
