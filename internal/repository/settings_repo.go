package repository

import (
	"context"
	"errors"

	"luminapos/internal/model"

	"gorm.io/gorm"
)

// settingsRowID: settings is a single-row table.
const settingsRowID = 1

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Upsert(ctx context.Context, s *model.Settings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := r.db.WithContext(ctx).First(&s, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, s *model.Settings) error {
	s.ID = settingsRowID
	return r.db.WithContext(ctx).Save(s).Error
}
