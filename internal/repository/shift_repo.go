package repository

import (
	"context"
	"errors"

	"luminapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	CreateShift(ctx context.Context, s *model.CashShift) error
	FindOpenShift(ctx context.Context) (*model.CashShift, error)
	FindShiftByID(ctx context.Context, id uuid.UUID) (*model.CashShift, error)
	UpdateShift(ctx context.Context, s *model.CashShift) error
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	// CreateMovementTx appends a movement inside an open settlement transaction.
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.CashMovement, error)
	// SumMovementsByType sums signed movement amounts per type for a shift.
	SumMovementsByType(ctx context.Context, shiftID uuid.UUID) (map[string]decimal.Decimal, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) CreateShift(ctx context.Context, s *model.CashShift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindOpenShift(ctx context.Context) (*model.CashShift, error) {
	var s model.CashShift
	err := r.db.WithContext(ctx).Where("status = ?", model.ShiftOpen).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) FindShiftByID(ctx context.Context, id uuid.UUID) (*model.CashShift, error) {
	var s model.CashShift
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) UpdateShift(ctx context.Context, s *model.CashShift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *shiftRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *shiftRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *shiftRepo) ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).Where("shift_id = ?", shiftID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *shiftRepo) SumMovementsByType(ctx context.Context, shiftID uuid.UUID) (map[string]decimal.Decimal, error) {
	rows := []struct {
		Type  string
		Total decimal.Decimal
	}{}
	err := r.db.WithContext(ctx).
		Model(&model.CashMovement{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("shift_id = ?", shiftID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Type] = row.Total
	}
	return sums, nil
}
