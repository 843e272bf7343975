package services

import (
	"context"
	"errors"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/schemas"
	"mfportal/src/utils"

	"github.com/shopspring/decimal"
)

type SchemeServiceI interface {
	List(ctx context.Context, includeInactive bool) ([]models.MutualFundScheme, error)
	Get(ctx context.Context, id uint, includeInactive bool) (*models.MutualFundScheme, error)
	Create(ctx context.Context, req schemas.CreateSchemeRequest) (*models.MutualFundScheme, error)
	Update(ctx context.Context, id uint, req schemas.UpdateSchemeRequest) (*models.MutualFundScheme, error)
	UpdateNAV(ctx context.Context, id uint, req schemas.NAVUpdateRequest) (*models.MutualFundScheme, error)
	SetNAV(ctx context.Context, id uint, nav decimal.Decimal) (*models.MutualFundScheme, error)
	Delete(ctx context.Context, id uint) error
}

type SchemeService struct {
	schemeRepo repositories.SchemeRepository
	cache      SchemeCache
}

func NewSchemeService(schemeRepo repositories.SchemeRepository, cache SchemeCache) *SchemeService {
	return &SchemeService{schemeRepo: schemeRepo, cache: cache}
}

func schemeNotFound() *Error {
	return NotFoundError(ReasonSchemeNotFound, "Mutual fund scheme not found.")
}

func schemeWriteError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return schemeNotFound()
	case errors.Is(err, repositories.ErrConflict):
		return ConflictError("A scheme with this name or scheme code already exists.")
	}
	return InternalError(err)
}

// List returns the catalog. Only the active listing is served from cache.
func (s *SchemeService) List(ctx context.Context, includeInactive bool) ([]models.MutualFundScheme, error) {
	if !includeInactive && s.cache != nil {
		if schemes, ok := s.cache.GetActive(ctx); ok {
			return schemes, nil
		}
	}
	schemes, err := s.schemeRepo.List(ctx, !includeInactive)
	if err != nil {
		return nil, InternalError(err)
	}
	if !includeInactive && s.cache != nil {
		s.cache.SetActive(ctx, schemes)
	}
	return schemes, nil
}

// Get hides inactive schemes unless includeInactive is set.
func (s *SchemeService) Get(ctx context.Context, id uint, includeInactive bool) (*models.MutualFundScheme, error) {
	scheme, err := s.schemeRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, schemeNotFound()
	}
	if err != nil {
		return nil, InternalError(err)
	}
	if !scheme.IsActive && !includeInactive {
		return nil, schemeNotFound()
	}
	return scheme, nil
}

func (s *SchemeService) Create(ctx context.Context, req schemas.CreateSchemeRequest) (*models.MutualFundScheme, error) {
	scheme, ferr := req.Validate()
	if ferr != nil {
		return nil, FromFieldError(ferr)
	}
	if err := s.schemeRepo.Create(ctx, scheme); err != nil {
		return nil, schemeWriteError(err)
	}
	s.invalidate(ctx)
	return scheme, nil
}

func (s *SchemeService) Update(ctx context.Context, id uint, req schemas.UpdateSchemeRequest) (*models.MutualFundScheme, error) {
	scheme, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if ferr := req.ApplyTo(scheme); ferr != nil {
		return nil, FromFieldError(ferr)
	}
	if err := s.schemeRepo.Update(ctx, scheme); err != nil {
		return nil, schemeWriteError(err)
	}
	s.invalidate(ctx)
	return scheme, nil
}

func (s *SchemeService) UpdateNAV(ctx context.Context, id uint, req schemas.NAVUpdateRequest) (*models.MutualFundScheme, error) {
	nav, ferr := req.Validate()
	if ferr != nil {
		return nil, FromFieldError(ferr)
	}
	return s.SetNAV(ctx, id, nav)
}

// SetNAV stores an already validated NAV. Past transactions keep the NAV they
// were executed at.
func (s *SchemeService) SetNAV(ctx context.Context, id uint, nav decimal.Decimal) (*models.MutualFundScheme, error) {
	scheme, err := s.schemeRepo.UpdateNAV(ctx, id, nav)
	if err != nil {
		return nil, schemeWriteError(err)
	}
	s.invalidate(ctx)
	utils.LoggerFromContext(ctx).WithField("scheme_id", id).WithField("nav", nav.String()).Info("nav updated")
	return scheme, nil
}

func (s *SchemeService) Delete(ctx context.Context, id uint) error {
	if err := s.schemeRepo.Delete(ctx, id); err != nil {
		return schemeWriteError(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *SchemeService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
