package service

import (
	"context"
	"errors"
	"time"

	"luminapos/internal/dto"
	"luminapos/internal/model"
	"luminapos/internal/repository"

	"github.com/google/uuid"
)

type ShiftService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftReportResponse, error)
	RecordMovement(ctx context.Context, req dto.MovementRequest) error
	Close(ctx context.Context, req dto.CloseShiftRequest) (*dto.ReconciliationResponse, error)
	Current(ctx context.Context) (*dto.ShiftReportResponse, error)
	Report(ctx context.Context, shiftID uuid.UUID) (*dto.ShiftReportResponse, error)
	// RequireOpen is called by the settlement coordinator to validate the
	// referenced shift before any side effect happens.
	RequireOpen(ctx context.Context, shiftID uuid.UUID) (*model.CashShift, error)
}

type shiftService struct {
	repo repository.ShiftRepository

	// injected for testability
	now   func() time.Time
	newID func() uuid.UUID
}

func NewShiftService(repo repository.ShiftRepository) ShiftService {
	return &shiftService{repo: repo, now: time.Now, newID: uuid.New}
}

// ── Open ─────────────────────────────────────────────────────────────────────
// Creates the shift and appends the implicit OPEN movement carrying the
// opening float, so closing reconciliation can treat expected cash uniformly
// as the sum of all movements.

func (s *shiftService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenShiftRequest) (*dto.ShiftReportResponse, error) {
	if existing, err := s.repo.FindOpenShift(ctx); err == nil && existing != nil {
		return nil, ErrShiftConflict
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	shift := &model.CashShift{
		ID:           s.newID(),
		OpenedBy:     userID,
		OpeningFloat: req.OpeningFloat,
		Status:       model.ShiftOpen,
		OpenedAt:     s.now(),
	}
	if err := s.repo.CreateShift(ctx, shift); err != nil {
		return nil, err
	}

	mov := &model.CashMovement{
		ID:        s.newID(),
		ShiftID:   shift.ID,
		Type:      model.MovementOpen,
		Amount:    req.OpeningFloat,
		Reason:    "shift open",
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}

	return s.buildReport(ctx, shift)
}

// ── RecordMovement ───────────────────────────────────────────────────────────
// Manual cash in/out against the open shift. Movements are immutable — there
// is no update or delete. CASH_OUT is stored negated so sums stay uniform.

func (s *shiftService) RecordMovement(ctx context.Context, req dto.MovementRequest) error {
	shift, err := s.repo.FindOpenShift(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActiveShift
		}
		return err
	}

	amount := req.Amount.Abs()
	if req.Type == model.MovementCashOut {
		amount = amount.Neg()
	}
	mov := &model.CashMovement{
		ID:        s.newID(),
		ShiftID:   shift.ID,
		Type:      req.Type,
		Amount:    amount,
		Reason:    req.Reason,
		CreatedAt: s.now(),
	}
	return s.repo.CreateMovement(ctx, mov)
}

// ── Close ────────────────────────────────────────────────────────────────────
// Terminal per shift instance: sets the counted amount, computes the
// reconciliation and appends the implicit CLOSE movement. Variance is
// reported, never auto-corrected.

func (s *shiftService) Close(ctx context.Context, req dto.CloseShiftRequest) (*dto.ReconciliationResponse, error) {
	shift, err := s.repo.FindOpenShift(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveShift
		}
		return nil, err
	}

	sums, err := s.repo.SumMovementsByType(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	// expected = opening float + cash sales + cash in − cash out.
	// CASH_OUT amounts are stored negated, so this is a plain sum.
	expected := shift.OpeningFloat.
		Add(sums[model.MovementSale]).
		Add(sums[model.MovementCashIn]).
		Add(sums[model.MovementCashOut])
	variance := req.CountedAmount.Sub(expected)

	now := s.now()
	counted := req.CountedAmount
	shift.CountedAmount = &counted
	shift.ExpectedAmount = &expected
	shift.Variance = &variance
	shift.Status = model.ShiftClosed
	shift.ClosedAt = &now

	if err := s.repo.UpdateShift(ctx, shift); err != nil {
		return nil, err
	}

	mov := &model.CashMovement{
		ID:        s.newID(),
		ShiftID:   shift.ID,
		Type:      model.MovementClose,
		Amount:    req.CountedAmount,
		Reason:    "shift close",
		CreatedAt: now,
	}
	if err := s.repo.CreateMovement(ctx, mov); err != nil {
		return nil, err
	}

	return &dto.ReconciliationResponse{
		ShiftID:       shift.ID.String(),
		OpeningFloat:  shift.OpeningFloat,
		CashSales:     sums[model.MovementSale],
		CashIn:        sums[model.MovementCashIn],
		CashOut:       sums[model.MovementCashOut].Abs(),
		ExpectedCash:  expected,
		CountedAmount: req.CountedAmount,
		Variance:      variance,
		Status:        model.ShiftClosed,
	}, nil
}

// ── Current / Report ─────────────────────────────────────────────────────────

func (s *shiftService) Current(ctx context.Context) (*dto.ShiftReportResponse, error) {
	shift, err := s.repo.FindOpenShift(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveShift
		}
		return nil, err
	}
	return s.buildReport(ctx, shift)
}

func (s *shiftService) Report(ctx context.Context, shiftID uuid.UUID) (*dto.ShiftReportResponse, error) {
	shift, err := s.repo.FindShiftByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	return s.buildReport(ctx, shift)
}

// ── RequireOpen ──────────────────────────────────────────────────────────────

func (s *shiftService) RequireOpen(ctx context.Context, shiftID uuid.UUID) (*model.CashShift, error) {
	shift, err := s.repo.FindShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveShift
		}
		return nil, err
	}
	if shift.Status != model.ShiftOpen {
		return nil, ErrShiftClosed
	}
	return shift, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *shiftService) buildReport(ctx context.Context, shift *model.CashShift) (*dto.ShiftReportResponse, error) {
	sums, err := s.repo.SumMovementsByType(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovements(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	expected := shift.OpeningFloat.
		Add(sums[model.MovementSale]).
		Add(sums[model.MovementCashIn]).
		Add(sums[model.MovementCashOut])

	report := &dto.ShiftReportResponse{
		ShiftID:      shift.ID.String(),
		Status:       shift.Status,
		OpeningFloat: shift.OpeningFloat,
		CashSales:    sums[model.MovementSale],
		CashIn:       sums[model.MovementCashIn],
		CashOut:      sums[model.MovementCashOut].Abs(),
		ExpectedCash: expected,
		OpenedAt:     shift.OpenedAt.Format(time.RFC3339),
	}

	report.Movements = make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		report.Movements = append(report.Movements, dto.MovementResponse{
			ID:        m.ID.String(),
			Type:      m.Type,
			Amount:    m.Amount,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	if shift.CountedAmount != nil {
		report.CountedAmount = shift.CountedAmount
	}
	if shift.Variance != nil {
		report.Variance = shift.Variance
	}
	if shift.ClosedAt != nil {
		t := shift.ClosedAt.Format(time.RFC3339)
		report.ClosedAt = &t
	}
	return report, nil
}
