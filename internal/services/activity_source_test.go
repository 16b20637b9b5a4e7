package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/repositories"
	"github.com/SAP-F-2025/activity-service/internal/validator"
)

type mockActivityRepository struct {
	mock.Mock
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return m.Called(ctx, activity).Error(0)
}

func (m *mockActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*models.Activity); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityRepository) GetByPublicSlug(ctx context.Context, slug string) (*models.Activity, error) {
	args := m.Called(ctx, slug)
	if a, ok := args.Get(0).(*models.Activity); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockActivityRepository) GetBySlugOrID(ctx context.Context, identifier string) (*models.Activity, error) {
	args := m.Called(ctx, identifier)
	if a, ok := args.Get(0).(*models.Activity); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestActivitySource_LoadDefinition(t *testing.T) {
	ctx := context.Background()

	stored := &models.Activity{
		ID:    "anagram-7",
		Title: "Animales",
		Kind:  models.KindAnagram,
		Data:  datatypes.JSON(`{"anagrams":[{"word":"gato","hint":"Maúlla"}]}`),
	}

	tests := []struct {
		name       string
		identifier string
		setup      func(repo *mockActivityRepository)
		wantErr    error
		check      func(t *testing.T, def *models.ActivityDefinition)
	}{
		{
			name:       "found",
			identifier: "  Ab3dEf7h ",
			setup: func(repo *mockActivityRepository) {
				repo.On("GetBySlugOrID", ctx, "Ab3dEf7h").Return(stored, nil)
			},
			check: func(t *testing.T, def *models.ActivityDefinition) {
				assert.Equal(t, "anagram-7", def.ID)
				assert.Equal(t, models.LanguageES, def.Language)
				require.Len(t, def.Anagrams, 1)
				assert.Equal(t, "Maúlla", def.Anagrams[0].Hint)
				assert.Empty(t, def.Questions)
			},
		},
		{
			name:       "blank identifier",
			identifier: "   ",
			setup:      func(*mockActivityRepository) {},
			wantErr:    ErrActivityNotFound,
		},
		{
			name:       "unknown",
			identifier: "missing",
			setup: func(repo *mockActivityRepository) {
				repo.On("GetBySlugOrID", ctx, "missing").Return(nil, repositories.ErrNotFound)
			},
			wantErr: ErrActivityNotFound,
		},
		{
			name:       "unreadable data",
			identifier: "broken",
			setup: func(repo *mockActivityRepository) {
				repo.On("GetBySlugOrID", ctx, "broken").
					Return(&models.Activity{ID: "broken", Data: datatypes.JSON(`{"questions":"nope"}`)}, nil)
			},
			wantErr: ErrActivityInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockActivityRepository{}
			tt.setup(repo)
			source := NewActivitySource(repo, validator.New(), testLogger())

			def, err := source.LoadDefinition(ctx, tt.identifier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, def)
			} else {
				require.NoError(t, err)
				tt.check(t, def)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestActivitySource_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mockActivityRepository{}
	repo.On("GetBySlugOrID", ctx, "quiz-1").Return(nil, errors.New("connection refused"))

	_, err := NewActivitySource(repo, validator.New(), testLogger()).LoadDefinition(ctx, "quiz-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "connection refused")
}
