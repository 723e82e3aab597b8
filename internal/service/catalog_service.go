package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/repository"
)

// CatalogService exposes the academic reference data the registration and
// enrollment screens need.
type CatalogService interface {
	ListPrograms(ctx context.Context) ([]dto.ProgramResponse, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
	logger  zerolog.Logger
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(catalog repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalog: catalog,
		logger:  logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListPrograms(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.catalog.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewProgramResponseSlice(programs), nil
}
