package service

import (
	"context"
	"errors"
	"fmt"

	"luminapos/internal/model"
	"luminapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InventoryService applies stock decrements for settled sales. Every call is
// best-effort from the settlement's point of view: an error here never
// unwinds a sale, it is reported and reconciled later.
type InventoryService interface {
	// ApplySale decrements stock for each line, recomputes variant-parent
	// aggregates and records audit movements. Per-product failures are
	// independent: one failing product does not block the others.
	ApplySale(ctx context.Context, txnID uuid.UUID, lines []model.SaleLine) error
	// ReconcileAggregates recomputes parent stock from variant stocks for all
	// variant products and reports drift. Returns the number of corrections.
	ReconcileAggregates(ctx context.Context) (int, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewInventoryService(products repository.ProductRepository, movements repository.StockMovementRepository) InventoryService {
	return &inventoryService{products: products, movements: movements}
}

func (s *inventoryService) ApplySale(ctx context.Context, txnID uuid.UUID, lines []model.SaleLine) error {
	// Group lines per product: a sale may hit several variants of one product
	// and the parent aggregate must be recomputed once, after all of them.
	perProduct := make(map[uuid.UUID][]model.SaleLine)
	order := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, seen := perProduct[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		perProduct[l.ProductID] = append(perProduct[l.ProductID], l)
	}

	var errs []error
	for _, pid := range order {
		if err := s.applyProduct(ctx, txnID, pid, perProduct[pid]); err != nil {
			log.Warn().
				Str("transaction_id", txnID.String()).
				Str("product_id", pid.String()).
				Err(err).
				Msg("stock adjustment failed, sale stands")
			errs = append(errs, fmt.Errorf("product %s: %w", pid, err))
		}
	}
	return errors.Join(errs...)
}

// stockAudit captures one line's before/after at mutation time, scoped to the
// stock that actually moved: the variant's own count for variant lines, the
// product count otherwise.
type stockAudit struct {
	line   model.SaleLine
	before int
	after  int
}

func (s *inventoryService) applyProduct(ctx context.Context, txnID uuid.UUID, productID uuid.UUID, lines []model.SaleLine) error {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	audits := make([]stockAudit, 0, len(lines))
	for _, l := range lines {
		if l.VariantID != nil && p.HasVariants {
			for i := range p.Variants {
				if p.Variants[i].ID == *l.VariantID {
					before := p.Variants[i].Stock
					p.Variants[i].Stock -= l.Quantity
					audits = append(audits, stockAudit{line: l, before: before, after: p.Variants[i].Stock})
					break
				}
			}
		} else {
			before := p.Stock
			p.Stock -= l.Quantity
			audits = append(audits, stockAudit{line: l, before: before, after: p.Stock})
		}
	}
	// The parent stock of a variant product is always the sum of its
	// variants, never edited independently.
	if p.HasVariants {
		total := 0
		for _, v := range p.Variants {
			total += v.Stock
		}
		p.Stock = total
	}

	// Negative stock is allowed by policy — flagged, not rejected.
	if p.Stock < 0 {
		log.Warn().
			Str("product_id", p.ID.String()).
			Int("stock", p.Stock).
			Msg("stock went negative")
	}

	if err := s.products.Save(ctx, p); err != nil {
		return err
	}

	for _, a := range audits {
		ref := txnID
		mov := &model.StockMovement{
			ProductID:   a.line.ProductID,
			VariantID:   a.line.VariantID,
			Type:        "sale",
			Quantity:    -a.line.Quantity,
			StockBefore: a.before,
			StockAfter:  a.after,
			Reason:      fmt.Sprintf("sale %s", txnID),
			ReferenceID: &ref,
		}
		if err := s.movements.Create(ctx, mov); err != nil {
			// Audit row failure must not undo the stock write.
			log.Warn().Err(err).Str("product_id", a.line.ProductID.String()).Msg("stock movement audit write failed")
		}
	}
	return nil
}

func (s *inventoryService) ReconcileAggregates(ctx context.Context) (int, error) {
	parents, err := s.products.ListVariantParents(ctx)
	if err != nil {
		return 0, err
	}
	corrected := 0
	for i := range parents {
		p := &parents[i]
		total := 0
		for _, v := range p.Variants {
			total += v.Stock
		}
		if total == p.Stock {
			continue
		}
		before := p.Stock
		p.Stock = total
		if err := s.products.Save(ctx, p); err != nil {
			log.Error().Err(err).Str("product_id", p.ID.String()).Msg("aggregate reconcile save failed")
			continue
		}
		corrected++
		log.Warn().
			Str("product_id", p.ID.String()).
			Int("recorded", before).
			Int("computed", total).
			Msg("variant aggregate drift corrected")
		mov := &model.StockMovement{
			ProductID:   p.ID,
			Type:        "reconcile",
			Quantity:    total - before,
			StockBefore: before,
			StockAfter:  total,
			Reason:      "aggregate reconciliation",
		}
		if err := s.movements.Create(ctx, mov); err != nil {
			log.Warn().Err(err).Msg("reconcile audit write failed")
		}
	}
	return corrected, nil
}
