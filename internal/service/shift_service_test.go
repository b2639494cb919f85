package service

import (
	"context"
	"testing"
	"time"

	"luminapos/internal/dto"
	"luminapos/internal/model"
	"luminapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Full in-memory ShiftRepository ───────────────────────────────────────────

type memShiftRepo struct {
	shifts    map[uuid.UUID]*model.CashShift
	movements []model.CashMovement
}

func newMemShiftRepo() *memShiftRepo {
	return &memShiftRepo{shifts: make(map[uuid.UUID]*model.CashShift)}
}

func (r *memShiftRepo) CreateShift(_ context.Context, s *model.CashShift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *memShiftRepo) FindOpenShift(_ context.Context) (*model.CashShift, error) {
	for _, s := range r.shifts {
		if s.Status == model.ShiftOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memShiftRepo) FindShiftByID(_ context.Context, id uuid.UUID) (*model.CashShift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memShiftRepo) UpdateShift(_ context.Context, s *model.CashShift) error {
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *memShiftRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memShiftRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	return r.CreateMovement(context.Background(), m)
}

func (r *memShiftRepo) ListMovements(_ context.Context, shiftID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memShiftRepo) SumMovementsByType(_ context.Context, shiftID uuid.UUID) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			sums[m.Type] = sums[m.Type].Add(m.Amount)
		}
	}
	return sums, nil
}

var _ repository.ShiftRepository = (*memShiftRepo)(nil)

// ── Tests ────────────────────────────────────────────────────────────────────

func TestOpenShift(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	report, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ShiftOpen, report.Status)
	assert.Equal(t, "100", report.OpeningFloat.String())
	// The implicit OPEN movement is the first ledger entry.
	require.Len(t, report.Movements, 1)
	assert.Equal(t, model.MovementOpen, report.Movements[0].Type)
}

func TestOpenShiftWhileOneIsOpen(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(50),
	})
	assert.ErrorIs(t, err, ErrShiftConflict)
}

func TestMovementWithoutOpenShift(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	err := svc.RecordMovement(context.Background(), dto.MovementRequest{
		Type:   model.MovementCashIn,
		Amount: decimal.NewFromFloat(50),
		Reason: "change fund",
	})
	assert.ErrorIs(t, err, ErrNoActiveShift)
}

func TestCashOutStoredNegated(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	err = svc.RecordMovement(context.Background(), dto.MovementRequest{
		Type:   model.MovementCashOut,
		Amount: decimal.NewFromFloat(20),
		Reason: "supplier payment",
	})
	require.NoError(t, err)

	last := repo.movements[len(repo.movements)-1]
	assert.Equal(t, model.MovementCashOut, last.Type)
	assert.Equal(t, "-20", last.Amount.String())
}

func TestCloseReconciliationExactMatch(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	require.NoError(t, svc.RecordMovement(context.Background(), dto.MovementRequest{
		Type: model.MovementCashIn, Amount: decimal.NewFromFloat(50), Reason: "change fund",
	}))
	require.NoError(t, svc.RecordMovement(context.Background(), dto.MovementRequest{
		Type: model.MovementCashOut, Amount: decimal.NewFromFloat(20), Reason: "supplier payment",
	}))

	// expected = 100 + 50 − 20 = 130; counting exactly 130 yields zero variance.
	result, err := svc.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(130),
	})
	require.NoError(t, err)

	assert.Equal(t, "130", result.ExpectedCash.String())
	assert.True(t, result.Variance.IsZero())
	assert.Equal(t, "20", result.CashOut.String(), "cash out reported as a positive figure")
	assert.Equal(t, model.ShiftClosed, result.Status)
}

func TestCloseVarianceReportedNotCorrected(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(200),
	})
	require.NoError(t, err)

	// Counted 185 against an expected 200: variance −15, stored as counted.
	result, err := svc.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(185),
	})
	require.NoError(t, err)

	assert.Equal(t, "-15", result.Variance.String())
	assert.Equal(t, "185", result.CountedAmount.String())

	shift, err := repo.FindShiftByID(context.Background(), uuid.MustParse(result.ShiftID))
	require.NoError(t, err)
	assert.Equal(t, "185", shift.CountedAmount.String())
	assert.Equal(t, "-15", shift.Variance.String())
}

func TestReopenAfterClose(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	// A closed shift no longer blocks opening the next one.
	_, err = svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(80),
	})
	assert.NoError(t, err)
}

func TestCloseWithoutOpenShift(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	_, err := svc.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(100),
	})
	assert.ErrorIs(t, err, ErrNoActiveShift)
}

func TestRequireOpenDistinguishesClosedShift(t *testing.T) {
	repo := newMemShiftRepo()
	svc := NewShiftService(repo)

	report, err := svc.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)
	shiftID := uuid.MustParse(report.ShiftID)

	_, err = svc.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	// A shift that exists but is closed reads differently from one that
	// never existed.
	_, err = svc.RequireOpen(context.Background(), shiftID)
	assert.ErrorIs(t, err, ErrShiftClosed)

	_, err = svc.RequireOpen(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoActiveShift)
}
