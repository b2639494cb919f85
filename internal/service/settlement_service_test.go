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

// ── In-memory TransactionRepository ──────────────────────────────────────────

type memTxnRepo struct {
	txns map[uuid.UUID]*model.Transaction
}

func newMemTxnRepo() *memTxnRepo {
	return &memTxnRepo{txns: make(map[uuid.UUID]*model.Transaction)}
}

func (r *memTxnRepo) DB() *gorm.DB { return nil }

func (r *memTxnRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaction) error {
	cp := *t
	r.txns[t.ID] = &cp
	return nil
}

func (r *memTxnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTxnRepo) SettlePending(_ *gorm.DB, t *model.Transaction) (int64, error) {
	existing, ok := r.txns[t.ID]
	if !ok || existing.Status != model.TxStatusPending {
		return 0, nil
	}
	now := time.Now()
	existing.Status = model.TxStatusSettled
	existing.ShiftID = t.ShiftID
	existing.UserID = t.UserID
	existing.Subtotal = t.Subtotal
	existing.Discount = t.Discount
	existing.Tax = t.Tax
	existing.Total = t.Total
	existing.PaymentMethod = t.PaymentMethod
	existing.StockShort = t.StockShort
	existing.SettledAt = &now
	existing.Payments = append(existing.Payments, t.Payments...)
	return 1, nil
}

func (r *memTxnRepo) List(_ context.Context, filter dto.TransactionFilter) ([]model.Transaction, int64, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if filter.Status != "" && filter.Status != "all" && t.Status != filter.Status {
			continue
		}
		if filter.Origin != "" && t.Origin != filter.Origin {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *memTxnRepo) ListPending(_ context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range r.txns {
		if t.Status == model.TxStatusPending && t.Origin == model.TxOriginWeb {
			out = append(out, *t)
		}
	}
	return out, nil
}

var _ repository.TransactionRepository = (*memTxnRepo)(nil)

// ── In-memory ProductRepository ──────────────────────────────────────────────

type memProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMemProductRepo(products ...*model.Product) *memProductRepo {
	r := &memProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func copyProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Variants = append([]model.ProductVariant(nil), p.Variants...)
	return &cp
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *memProductRepo) List(_ context.Context, activeOnly bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, *copyProduct(p))
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, p *model.Product) error {
	r.products[p.ID] = copyProduct(p)
	return nil
}

func (r *memProductRepo) ListVariantParents(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.HasVariants {
			out = append(out, *copyProduct(p))
		}
	}
	return out, nil
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

// ── In-memory StockMovementRepository ────────────────────────────────────────

type memStockMoveRepo struct {
	movements []model.StockMovement
}

func (r *memStockMoveRepo) Create(_ context.Context, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *memStockMoveRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*memStockMoveRepo)(nil)

// ── Fixed settings ───────────────────────────────────────────────────────────

type fixedSettings struct {
	cfg TaxConfig
}

func (s *fixedSettings) Get(context.Context) (*dto.SettingsResponse, error)  { return nil, nil }
func (s *fixedSettings) Update(context.Context, dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	return nil, nil
}
func (s *fixedSettings) TaxConfig(context.Context) (TaxConfig, error) { return s.cfg, nil }

var _ SettingsService = (*fixedSettings)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type settlementFixture struct {
	svc       SettlementService
	shifts    ShiftService
	shiftRepo *memShiftRepo
	txnRepo   *memTxnRepo
	products  *memProductRepo
	stockLog  *memStockMoveRepo
	shiftID   uuid.UUID
}

func newSettlementFixture(t *testing.T, products ...*model.Product) *settlementFixture {
	t.Helper()

	shiftRepo := newMemShiftRepo()
	txnRepo := newMemTxnRepo()
	productRepo := newMemProductRepo(products...)
	stockLog := &memStockMoveRepo{}

	shifts := NewShiftService(shiftRepo)
	inventory := NewInventoryService(productRepo, stockLog)
	settings := &fixedSettings{cfg: TaxConfig{Rate: decimal.NewFromFloat(0.18), PricesIncludeTax: true}}

	// nil dispatcher: stock sync runs inline through the inventory adjuster.
	svc := NewSettlementService(txnRepo, shifts, shiftRepo, productRepo, settings, inventory, nil)

	report, err := shifts.Open(context.Background(), uuid.New(), dto.OpenShiftRequest{
		OpeningFloat: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	return &settlementFixture{
		svc:       svc,
		shifts:    shifts,
		shiftRepo: shiftRepo,
		txnRepo:   txnRepo,
		products:  productRepo,
		stockLog:  stockLog,
		shiftID:   uuid.MustParse(report.ShiftID),
	}
}

func (f *settlementFixture) saleMovements() []model.CashMovement {
	var out []model.CashMovement
	for _, m := range f.shiftRepo.movements {
		if m.Type == model.MovementSale {
			out = append(out, m)
		}
	}
	return out
}

func simpleProduct(price float64, stock int) *model.Product {
	return &model.Product{
		ID:     uuid.New(),
		Name:   "Coffee Beans 1kg",
		Price:  decimal.NewFromFloat(price),
		Stock:  stock,
		Active: true,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestSettleCashSale(t *testing.T) {
	p := simpleProduct(15.00, 10)
	f := newSettlementFixture(t, p)

	resp, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(40)},
		},
	})
	require.NoError(t, err)

	// Inclusive 18%: 2 × 15.00 → total 30.00, tax 4.58 backed out.
	assert.Equal(t, model.TxStatusSettled, resp.Status)
	assert.Equal(t, "30", resp.Total.String())
	assert.Equal(t, "4.58", resp.Tax.String())
	assert.Equal(t, "25.42", resp.Subtotal.String())
	assert.Equal(t, "10", resp.Change.String())
	assert.False(t, resp.StockShort)

	// Stored payment is the total, not the tendered 40.
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "30", resp.Payments[0].Amount.String())

	// The cash portion hit the drawer ledger atomically with the sale.
	sales := f.saleMovements()
	require.Len(t, sales, 1)
	assert.Equal(t, "30", sales[0].Amount.String())

	// Stock decremented by the sold quantity.
	stored, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)

	// Audit row written.
	moves, _ := f.stockLog.ListByProduct(context.Background(), p.ID, 10)
	require.Len(t, moves, 1)
	assert.Equal(t, -2, moves[0].Quantity)
}

func TestSettleRequiresOpenShift(t *testing.T) {
	p := simpleProduct(15.00, 10)
	f := newSettlementFixture(t, p)

	_, err := f.shifts.Close(context.Background(), dto.CloseShiftRequest{
		CountedAmount: decimal.NewFromFloat(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 1},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(15)},
		},
	})
	assert.ErrorIs(t, err, ErrShiftClosed)
}

func TestSettleInsufficientPaymentHasNoSideEffects(t *testing.T) {
	p := simpleProduct(15.00, 10)
	f := newSettlementFixture(t, p)

	_, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(20)},
		},
	})
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// Nothing persisted, nothing moved.
	assert.Empty(t, f.txnRepo.txns)
	assert.Empty(t, f.saleMovements())
	stored, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, stored.Stock)
}

func TestSettleStockShortFlagged(t *testing.T) {
	// Selling more than is on hand settles anyway, flagged for review.
	p := simpleProduct(15.00, 1)
	f := newSettlementFixture(t, p)

	resp, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(30)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.StockShort)
	stored, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, -1, stored.Stock)
}

func TestSettleVariantKeepsAggregateInvariant(t *testing.T) {
	pid := uuid.New()
	small := model.ProductVariant{ID: uuid.New(), ProductID: pid, Name: "S", Price: decimal.NewFromFloat(25), Stock: 5}
	large := model.ProductVariant{ID: uuid.New(), ProductID: pid, Name: "L", Price: decimal.NewFromFloat(28), Stock: 5}
	p := &model.Product{
		ID:          pid,
		Name:        "Shirt",
		Price:       decimal.NewFromFloat(25),
		Stock:       10,
		HasVariants: true,
		Active:      true,
		Variants:    []model.ProductVariant{small, large},
	}
	f := newSettlementFixture(t, p)

	vid := small.ID.String()
	resp, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: pid.String(), VariantID: &vid, Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(50)},
		},
	})
	require.NoError(t, err)

	// The item snapshot names the variant and uses its price.
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Shirt (S)", resp.Items[0].Product)
	assert.Equal(t, "25", resp.Items[0].UnitPrice.String())

	// Parent stock equals the sum of variant stocks after the sale.
	stored, _ := f.products.FindByID(context.Background(), pid)
	assert.Equal(t, 8, stored.Stock)
	total := 0
	for _, v := range stored.Variants {
		total += v.Stock
	}
	assert.Equal(t, stored.Stock, total)
}

func TestSettleWebOrderIdempotent(t *testing.T) {
	p := simpleProduct(15.00, 10)
	f := newSettlementFixture(t, p)

	// A web order lands as a pending transaction before the customer shows up.
	orderID := uuid.New()
	f.txnRepo.txns[orderID] = &model.Transaction{
		ID:        orderID,
		Origin:    model.TxOriginWeb,
		Status:    model.TxStatusPending,
		Total:     decimal.NewFromFloat(30),
		CreatedAt: time.Now(),
	}

	oid := orderID.String()
	req := dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(30)},
		},
		OrderID: &oid,
	}

	resp, err := f.svc.Settle(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), resp.ID, "order settles in place, no new record")
	assert.Equal(t, model.TxStatusSettled, resp.Status)

	// Double-tap: the retry returns the settled order instead of failing or
	// duplicating anything.
	again, err := f.svc.Settle(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, orderID.String(), again.ID)

	assert.Len(t, f.txnRepo.txns, 1)
	assert.Len(t, f.saleMovements(), 1, "retry must not add a second drawer entry")
}

func TestSettleIdempotencyKeyCoalescesRetry(t *testing.T) {
	p := simpleProduct(15.00, 10)
	f := newSettlementFixture(t, p)

	// The register attaches a fresh key to each charge attempt; a double-tap
	// resends the same key.
	key := uuid.New().String()
	req := dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(30)},
		},
		IdempotencyKey: &key,
	}

	first, err := f.svc.Settle(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, key, first.ID, "the key becomes the transaction id")

	again, err := f.svc.Settle(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "retry returns the settled sale, not a duplicate")

	// Exactly one sale rang through: one record, one drawer entry, stock
	// decremented once.
	assert.Len(t, f.txnRepo.txns, 1)
	assert.Len(t, f.saleMovements(), 1)
	stored, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 8, stored.Stock)
}

func TestSettleVariantAuditRecordsVariantStock(t *testing.T) {
	pid := uuid.New()
	small := model.ProductVariant{ID: uuid.New(), ProductID: pid, Name: "S", Price: decimal.NewFromFloat(25), Stock: 5}
	large := model.ProductVariant{ID: uuid.New(), ProductID: pid, Name: "L", Price: decimal.NewFromFloat(28), Stock: 5}
	p := &model.Product{
		ID:          pid,
		Name:        "Shirt",
		Price:       decimal.NewFromFloat(25),
		Stock:       10,
		HasVariants: true,
		Active:      true,
		Variants:    []model.ProductVariant{small, large},
	}
	f := newSettlementFixture(t, p)

	vid := small.ID.String()
	_, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: pid.String(), VariantID: &vid, Quantity: 2},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(50)},
		},
	})
	require.NoError(t, err)

	// The audit row tracks the variant's own level, not the parent aggregate.
	moves, _ := f.stockLog.ListByProduct(context.Background(), pid, 10)
	require.Len(t, moves, 1)
	require.NotNil(t, moves[0].VariantID)
	assert.Equal(t, small.ID, *moves[0].VariantID)
	assert.Equal(t, 5, moves[0].StockBefore)
	assert.Equal(t, 3, moves[0].StockAfter)
	assert.Equal(t, -2, moves[0].Quantity)
}

func TestSettleInactiveProductRejected(t *testing.T) {
	p := simpleProduct(15.00, 10)
	p.Active = false
	f := newSettlementFixture(t, p)

	_, err := f.svc.Settle(context.Background(), uuid.New(), dto.CheckoutRequest{
		ShiftID: f.shiftID.String(),
		Items: []dto.CheckoutItemRequest{
			{ProductID: p.ID.String(), Quantity: 1},
		},
		Payments: []dto.PaymentRequest{
			{Method: MethodCash, Amount: decimal.NewFromFloat(15)},
		},
	})
	require.Error(t, err)
	assert.Empty(t, f.txnRepo.txns)
}

func TestListPendingOrders(t *testing.T) {
	f := newSettlementFixture(t, simpleProduct(15.00, 10))

	f.txnRepo.txns[uuid.New()] = &model.Transaction{
		ID: uuid.New(), Origin: model.TxOriginWeb, Status: model.TxStatusPending,
		Total: decimal.NewFromFloat(12), CreatedAt: time.Now(),
	}
	f.txnRepo.txns[uuid.New()] = &model.Transaction{
		ID: uuid.New(), Origin: model.TxOriginPOS, Status: model.TxStatusSettled,
		Total: decimal.NewFromFloat(99), CreatedAt: time.Now(),
	}

	pending, err := f.svc.ListPendingOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.TxStatusPending, pending[0].Status)
}
