package repository

import (
	"context"
	"errors"
	"time"

	"luminapos/internal/dto"
	"luminapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create persists a new transaction with its items and payments inside tx.
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	// SettlePending flips a pending order to settled and attaches settlement
	// data. It is conditional on the current status: a concurrent or retried
	// call that lost the race reports zero rows updated so the caller can
	// fall back to the already-settled record.
	SettlePending(tx *gorm.DB, t *model.Transaction) (int64, error)
	List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error)
	ListPending(ctx context.Context) ([]model.Transaction, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items").Preload("Payments").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) SettlePending(tx *gorm.DB, t *model.Transaction) (int64, error) {
	now := time.Now()
	if t.SettledAt != nil {
		now = *t.SettledAt
	}
	res := tx.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", t.ID, model.TxStatusPending).
		Updates(map[string]interface{}{
			"status":         model.TxStatusSettled,
			"shift_id":       t.ShiftID,
			"user_id":        t.UserID,
			"subtotal":       t.Subtotal,
			"discount":       t.Discount,
			"tax":            t.Tax,
			"total":          t.Total,
			"payment_method": t.PaymentMethod,
			"stock_short":    t.StockShort,
			"settled_at":     now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		for i := range t.Payments {
			t.Payments[i].TransactionID = t.ID
		}
		if len(t.Payments) > 0 {
			if err := tx.Create(&t.Payments).Error; err != nil {
				return 0, err
			}
		}
	}
	return res.RowsAffected, nil
}

func (r *transactionRepo) List(ctx context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var txns []model.Transaction
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Origin != "" {
		q = q.Where("origin = ?", filter.Origin)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&txns).Error

	return txns, total, err
}

func (r *transactionRepo) ListPending(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND origin = ?", model.TxStatusPending, model.TxOriginWeb).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}
