package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"luminapos/internal/cart"
	"luminapos/internal/dto"
	"luminapos/internal/model"
	"luminapos/internal/repository"
	"luminapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettlementService interface {
	Settle(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	ListPendingOrders(ctx context.Context) ([]dto.TransactionResponse, error)
}

type settlementService struct {
	repo       repository.TransactionRepository
	shifts     ShiftService
	shiftRepo  repository.ShiftRepository
	products   repository.ProductRepository
	settings   SettingsService
	inventory  InventoryService
	dispatcher *worker.Dispatcher

	// inFlight serializes settlement attempts per settlement id (order id,
	// idempotency key, or fresh id) so a double-tapped charge cannot execute
	// twice while the first authoritative write is still pending.
	mu       sync.Mutex
	inFlight map[string]struct{}

	// injected for testability
	now   func() time.Time
	newID func() uuid.UUID
}

func NewSettlementService(
	repo repository.TransactionRepository,
	shifts ShiftService,
	shiftRepo repository.ShiftRepository,
	products repository.ProductRepository,
	settings SettingsService,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) SettlementService {
	return &settlementService{
		repo:       repo,
		shifts:     shifts,
		shiftRepo:  shiftRepo,
		products:   products,
		settings:   settings,
		inventory:  inventory,
		dispatcher: dispatcher,
		inFlight:   make(map[string]struct{}),
		now:        time.Now,
		newID:      uuid.New,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Settle ───────────────────────────────────────────────────────────────────
// Ordered algorithm; each step's failure mode matters:
//   1. Validate the referenced shift is open (no side effects on failure)
//   2. Serialize per source id; detect an already-settled external order
//   3. Resolve products, compute totals, validate the payment split
//   4. TX: persist the transaction (insert, or pending → settled update for
//      web orders) plus the SALE cash movement — the authoritative write
//   5. After commit: best-effort stock adjustment, never blocking the sale
//
// The money-relevant record is written before inventory on purpose: stock
// drift is recoverable by reconciliation, a lost sale record is not.

func (s *settlementService) Settle(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.TransactionResponse, error) {
	shiftID, err := uuid.Parse(req.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("invalid shift_id: %w", err)
	}

	// 1. Validate open shift
	shift, err := s.shifts.RequireOpen(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	// 2. Serialize attempts for the same source. The settlement id doubles as
	// the in-flight key: the external order id when finalizing a web order,
	// the register's idempotency key for a POS sale, a fresh id otherwise.
	txnID := s.newID()
	var orderID *uuid.UUID
	if req.OrderID != nil {
		oid, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		orderID = &oid
		txnID = oid
	} else if req.IdempotencyKey != nil {
		kid, err := uuid.Parse(*req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("invalid idempotency_key: %w", err)
		}
		txnID = kid
	}
	if err := s.acquire(txnID); err != nil {
		return nil, err
	}
	defer s.release(txnID)

	// A retry of an already-settled source is recovered silently: the existing
	// record is returned, never a second one created.
	if orderID != nil || req.IdempotencyKey != nil {
		existing, err := s.repo.FindByID(ctx, txnID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.Status == model.TxStatusSettled {
			return s.toResponse(existing, nil, nil), nil
		}
	}

	// 3. Resolve products into a frozen cart and compute totals (pre-flight,
	// outside the TX — nothing has been mutated yet).
	c, lines, stockShort, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	frozen := c.Lines()

	taxCfg, err := s.settings.TaxConfig(ctx)
	if err != nil {
		return nil, err
	}
	totals := CalculateTotals(frozen, taxCfg)

	split, err := SplitPayments(totals.Total, req.Payments)
	if err != nil {
		return nil, err
	}

	// 4. Authoritative write
	now := s.now()
	sid := shift.ID
	uid := userID
	txn := &model.Transaction{
		ID:            txnID,
		ShiftID:       &sid,
		UserID:        &uid,
		Origin:        model.TxOriginPOS,
		Status:        model.TxStatusSettled,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: split.Method,
		StockShort:    stockShort,
		CreatedAt:     now,
		SettledAt:     &now,
	}
	for _, l := range frozen {
		qty := int64(l.Quantity)
		txn.Items = append(txn.Items, model.TransactionItem{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			LineTotal: l.UnitPrice.Sub(l.Discount).Mul(decimal.NewFromInt(qty)),
		})
	}
	for _, p := range split.Payments {
		txn.Payments = append(txn.Payments, model.TransactionPayment{
			Method: p.Method,
			Amount: p.Amount,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if orderID != nil {
			txn.Origin = model.TxOriginWeb
			updated, err := s.repo.SettlePending(tx, txn)
			if err != nil {
				return err
			}
			if updated == 0 {
				// Lost a race or the order left the pending state between the
				// pre-check and here. A concurrent settle wins; anything else
				// is not settleable.
				return errAlreadySettled
			}
		} else {
			// Items are frozen into the new record; web orders keep theirs.
			if err := s.repo.Create(ctx, tx, txn); err != nil {
				return err
			}
		}

		// The cash portion enters the drawer the moment the sale is final,
		// so the SALE movement commits atomically with the transaction.
		if cash := split.CashPortion(); cash.IsPositive() {
			ref := txn.ID
			mov := &model.CashMovement{
				ShiftID:     shift.ID,
				Type:        model.MovementSale,
				Amount:      cash,
				Reason:      fmt.Sprintf("sale %s", txn.ID),
				ReferenceID: &ref,
				CreatedAt:   now,
			}
			if err := s.shiftRepo.CreateMovementTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(txErr, errAlreadySettled) {
		existing, err := s.repo.FindByID(ctx, *orderID)
		if err != nil {
			return nil, ErrOrderNotPending
		}
		if existing.Status != model.TxStatusSettled {
			return nil, ErrOrderNotPending
		}
		return s.toResponse(existing, nil, nil), nil
	}
	if txErr != nil {
		// The cart is untouched and nothing was persisted — the operator may
		// retry freely.
		return nil, txErr
	}

	// 5. Best-effort stock adjustment (fire & forget). The sale stands
	// regardless of what happens here.
	var stockWarning *string
	if s.dispatcher != nil {
		payload := worker.StockSyncPayload{TransactionID: txn.ID.String(), Lines: lines}
		if err := s.dispatcher.EnqueueStockSync(ctx, payload); err != nil {
			msg := "stock sync could not be queued; inventory will be reconciled"
			stockWarning = &msg
			log.Warn().Str("transaction_id", txn.ID.String()).Err(err).Msg("stock sync enqueue failed")
		}
	} else if s.inventory != nil {
		if err := s.inventory.ApplySale(ctx, txn.ID, lines); err != nil {
			msg := "stock adjustment incomplete; inventory will be reconciled"
			stockWarning = &msg
		}
	}

	// 6. The caller clears its cart only now that the sale is recorded.
	change := split.Change
	return s.toResponse(txn, &change, stockWarning), nil
}

// errAlreadySettled is internal control flow for the conditional update race;
// it never escapes Settle.
var errAlreadySettled = errors.New("order already settled")

func (s *settlementService) acquire(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.String()
	if _, busy := s.inFlight[key]; busy {
		return ErrSettlementInProgress
	}
	s.inFlight[key] = struct{}{}
	return nil
}

func (s *settlementService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id.String())
}

// resolveItems fetches each product, snapshots prices into a cart and reports
// whether any line exceeds the available stock. Stock shortage never blocks a
// sale; it only flags the transaction.
func (s *settlementService) resolveItems(ctx context.Context, items []dto.CheckoutItemRequest) (*cart.Cart, []model.SaleLine, bool, error) {
	c := cart.New()
	lines := make([]model.SaleLine, 0, len(items))
	stockShort := false

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, nil, false, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, nil, false, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.Active {
			return nil, nil, false, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}

		name := p.Name
		price := p.Price
		available := p.Stock
		var variantID *uuid.UUID
		if item.VariantID != nil {
			vid, err := uuid.Parse(*item.VariantID)
			if err != nil {
				return nil, nil, false, fmt.Errorf("invalid variant_id: %w", err)
			}
			found := false
			for _, v := range p.Variants {
				if v.ID == vid {
					name = fmt.Sprintf("%s (%s)", p.Name, v.Name)
					price = v.Price
					available = v.Stock
					found = true
					break
				}
			}
			if !found {
				return nil, nil, false, fmt.Errorf("variant %s not found on product %s", vid, p.Name)
			}
			variantID = &vid
		}

		if available < item.Quantity {
			stockShort = true
		}

		c.Add(pid, variantID, name, price, item.Quantity)
		c.SetDiscount(pid, variantID, item.Discount)
		lines = append(lines, model.SaleLine{ProductID: pid, VariantID: variantID, Quantity: item.Quantity})
	}
	return c, lines, stockShort, nil
}

// ── List / ListPendingOrders ─────────────────────────────────────────────────

func (s *settlementService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = model.TxStatusSettled
	}
	txns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, *s.toResponse(&txns[i], nil, nil))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *settlementService) ListPendingOrders(ctx context.Context) ([]dto.TransactionResponse, error) {
	txns, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, *s.toResponse(&txns[i], nil, nil))
	}
	return out, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *settlementService) toResponse(t *model.Transaction, change *decimal.Decimal, stockWarning *string) *dto.TransactionResponse {
	items := make([]dto.CheckoutItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, dto.CheckoutItemResponse{
			Product:   item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			LineTotal: item.LineTotal,
		})
	}
	payments := make([]dto.PaymentRequest, 0, len(t.Payments))
	for _, p := range t.Payments {
		payments = append(payments, dto.PaymentRequest{Method: p.Method, Amount: p.Amount})
	}

	shiftID := ""
	if t.ShiftID != nil {
		shiftID = t.ShiftID.String()
	}
	resp := &dto.TransactionResponse{
		ID:            t.ID.String(),
		ShiftID:       shiftID,
		Origin:        t.Origin,
		Status:        t.Status,
		Items:         items,
		Subtotal:      t.Subtotal,
		Discount:      t.Discount,
		Tax:           t.Tax,
		Total:         t.Total,
		PaymentMethod: t.PaymentMethod,
		Payments:      payments,
		StockShort:    t.StockShort,
		StockWarning:  stockWarning,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if change != nil {
		resp.Change = *change
	}
	return resp
}
