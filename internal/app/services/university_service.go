package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/helpers"
)

// UniversityService handles the shared university catalog
type UniversityService struct {
	universities UniversityStore
	logger       zerolog.Logger
}

// NewUniversityService creates a new UniversityService
func NewUniversityService(universities UniversityStore, logger zerolog.Logger) *UniversityService {
	return &UniversityService{
		universities: universities,
		logger:       logger,
	}
}

// SearchUniversities returns the catalog page matching the filter,
// ranked universities first.
func (s *UniversityService) SearchUniversities(ctx context.Context, filter *dto.UniversityFilter, page, size int) ([]*models.University, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	universities, total, err := s.universities.Search(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return universities, helpers.NewPaginationInfo(int64(total), page, size), nil
}

// GetUniversity returns one catalog entry
func (s *UniversityService) GetUniversity(ctx context.Context, id uuid.UUID) (*models.University, error) {
	return s.universities.GetByID(ctx, id)
}

// CreateUniversity adds a catalog entry. Restricted to admins at the
// routing layer.
func (s *UniversityService) CreateUniversity(ctx context.Context, req *dto.CreateUniversityRequest) (*models.University, error) {
	if req.Name == "" {
		return nil, apperrors.NewBadRequestError("name is required")
	}
	if req.AcceptanceRate != nil && (*req.AcceptanceRate < 0 || *req.AcceptanceRate > 100) {
		return nil, apperrors.NewBadRequestError("acceptance_rate must be between 0 and 100")
	}
	if req.Ranking != nil && *req.Ranking < 1 {
		return nil, apperrors.NewBadRequestError("ranking must be positive")
	}

	country := req.Country
	if country == "" {
		country = "United States"
	}

	university := &models.University{
		Name:              req.Name,
		ShortName:         req.ShortName,
		Country:           country,
		State:             req.State,
		City:              req.City,
		WebsiteURL:        req.WebsiteURL,
		Ranking:           req.Ranking,
		AcceptanceRate:    req.AcceptanceRate,
		ApplicationSystem: req.ApplicationSystem,
		TuitionInState:    req.TuitionInState,
		TuitionOutState:   req.TuitionOutState,
		RoomAndBoard:      req.RoomAndBoard,
		ApplicationFee:    req.ApplicationFee,
		Deadlines:         req.Deadlines,
		PopularMajors:     req.PopularMajors,
		TotalEnrollment:   req.TotalEnrollment,
	}

	if err := s.universities.Create(ctx, university); err != nil {
		return nil, err
	}

	s.logger.Info().Str("universityId", university.ID.String()).Str("name", university.Name).
		Msg("University added to catalog")

	return university, nil
}
