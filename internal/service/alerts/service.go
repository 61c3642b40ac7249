// Package alerts computes per-household low-stock digests. An item is low
// when its current stock is at or below its configured minimum; items with a
// zero minimum never alert.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/service/units"
	"github.com/mamadbah2/pantry/pkg/clients/webhook"
)

// Store is the document-store surface the digest job depends on.
type Store interface {
	Households(ctx context.Context) ([]string, error)
	ListSubcategories(ctx context.Context, household string) ([]models.Subcategory, error)
}

// Service builds and dispatches low-stock digests.
type Service struct {
	store   Store
	client  webhook.Client
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewService constructs the alerts service.
func NewService(store Store, client webhook.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, client: client, logger: logger, nowFunc: time.Now}
}

// BuildDigest collects the household's items at or below minimum stock.
// An empty Items slice means nothing to report.
func (s *Service) BuildDigest(ctx context.Context, household string) (webhook.DigestRequest, error) {
	subs, err := s.store.ListSubcategories(ctx, household)
	if err != nil {
		return webhook.DigestRequest{}, fmt.Errorf("list subcategories for digest: %w", err)
	}

	var items []webhook.DigestItem
	for _, sub := range subs {
		if sub.MinimumStock <= 0 || sub.CurrentStock > sub.MinimumStock {
			continue
		}
		items = append(items, webhook.DigestItem{
			Name:         sub.Name,
			CurrentStock: sub.CurrentStock,
			MinimumStock: sub.MinimumStock,
			TargetStock:  sub.TargetStock,
			Unit:         sub.MeasureUnit,
		})
	}

	return webhook.DigestRequest{
		HouseholdID: household,
		GeneratedAt: s.nowFunc(),
		Items:       items,
		Text:        digestText(items),
	}, nil
}

// DispatchAll builds and posts a digest for every household that has items
// below minimum. Failures on one household do not stop the others.
func (s *Service) DispatchAll(ctx context.Context) error {
	households, err := s.store.Households(ctx)
	if err != nil {
		return fmt.Errorf("list households: %w", err)
	}

	var failed int
	for _, h := range households {
		digest, err := s.BuildDigest(ctx, h)
		if err != nil {
			s.logger.Error("failed building digest", zap.String("household", h), zap.Error(err))
			failed++
			continue
		}
		if len(digest.Items) == 0 {
			continue
		}
		if err := s.client.SendDigest(ctx, digest); err != nil {
			s.logger.Error("failed sending digest", zap.String("household", h), zap.Error(err))
			failed++
			continue
		}
		s.logger.Info("low-stock digest sent",
			zap.String("household", h), zap.Int("items", len(digest.Items)))
	}

	if failed > 0 {
		return fmt.Errorf("digest dispatch finished with %d failure(s)", failed)
	}
	return nil
}

func digestText(items []webhook.DigestItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Low stock:")
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %s: %s %s (min %s)",
			it.Name,
			units.FormatQuantity(it.CurrentStock), it.Unit,
			units.FormatQuantity(it.MinimumStock))
	}
	return b.String()
}
