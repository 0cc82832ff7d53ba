package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

func newUniversityFixture(t *testing.T) (*UniversityService, *stubUniversityStore) {
	t.Helper()
	store := newStubUniversityStore()
	return NewUniversityService(store, zerolog.Nop()), store
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateUniversity(t *testing.T) {
	service, _ := newUniversityFixture(t)

	u, err := service.CreateUniversity(context.Background(), &dto.CreateUniversityRequest{
		Name:           "Purdue University",
		Country:        "",
		Ranking:        intPtr(43),
		AcceptanceRate: floatPtr(53.0),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	// Country defaults when omitted.
	assert.Equal(t, "United States", u.Country)
}

func TestCreateUniversityValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateUniversityRequest
	}{
		{"empty name", dto.CreateUniversityRequest{}},
		{"acceptance rate above 100", dto.CreateUniversityRequest{Name: "X", AcceptanceRate: floatPtr(120)}},
		{"negative acceptance rate", dto.CreateUniversityRequest{Name: "X", AcceptanceRate: floatPtr(-1)}},
		{"zero ranking", dto.CreateUniversityRequest{Name: "X", Ranking: intPtr(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newUniversityFixture(t)
			_, err := service.CreateUniversity(context.Background(), &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		})
	}
}

func TestCreateUniversityDuplicateName(t *testing.T) {
	service, _ := newUniversityFixture(t)

	_, err := service.CreateUniversity(context.Background(), &dto.CreateUniversityRequest{Name: "MIT"})
	require.NoError(t, err)

	_, err = service.CreateUniversity(context.Background(), &dto.CreateUniversityRequest{Name: "MIT"})
	assert.ErrorIs(t, err, apperrors.ErrUniversityAlreadyExists)
}

func TestSearchUniversitiesPagination(t *testing.T) {
	service, store := newUniversityFixture(t)
	store.add(&models.University{Name: "Stanford University"})
	store.add(&models.University{Name: "MIT"})
	store.add(&models.University{Name: "Purdue University"})

	universities, pagination, err := service.SearchUniversities(context.Background(), &dto.UniversityFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, universities, 2)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.Equal(t, 1, pagination.CurrentPage)

	universities, pagination, err = service.SearchUniversities(context.Background(), &dto.UniversityFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, universities, 1)
	assert.Equal(t, 2, pagination.CurrentPage)
}

func TestGetUniversity(t *testing.T) {
	service, store := newUniversityFixture(t)
	u := store.add(&models.University{Name: "MIT"})

	got, err := service.GetUniversity(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "MIT", got.Name)

	_, err = service.GetUniversity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)
}
