package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/residencia-tech/relatorio-api/internal/dto"
	"github.com/residencia-tech/relatorio-api/internal/models"
)

// LookupRepository lists the entities selectable in the report filter form.
type LookupRepository interface {
	ListGroups(ctx context.Context) ([]dto.Option, error)
	ListInstructors(ctx context.Context) ([]dto.Option, error)
	ListActivities(ctx context.Context) ([]dto.Option, error)
}

type lookupRepository struct {
	db *gorm.DB
}

// NewLookupRepository constructs the lookup repository.
func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) ListGroups(ctx context.Context) ([]dto.Option, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&groups).Error; err != nil {
		return nil, err
	}

	options := make([]dto.Option, 0, len(groups))
	for _, group := range groups {
		options = append(options, dto.Option{ID: group.ID, Name: group.Name})
	}
	return options, nil
}

func (r *lookupRepository) ListInstructors(ctx context.Context) ([]dto.Option, error) {
	var instructors []models.Instructor
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&instructors).Error; err != nil {
		return nil, err
	}

	options := make([]dto.Option, 0, len(instructors))
	for _, instructor := range instructors {
		options = append(options, dto.Option{ID: instructor.ID, Name: instructor.Name})
	}
	return options, nil
}

func (r *lookupRepository) ListActivities(ctx context.Context) ([]dto.Option, error) {
	var activities []models.Activity
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&activities).Error; err != nil {
		return nil, err
	}

	options := make([]dto.Option, 0, len(activities))
	for _, activity := range activities {
		options = append(options, dto.Option{ID: activity.ID, Name: activity.Name})
	}
	return options, nil
}
