package ledger

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry/internal/domain/models"
	"github.com/mamadbah2/pantry/internal/repository"
)

// ReverseMovement undoes a single ledger record: the inverse delta is
// applied to the subcategory's stock (floored at zero) and the movement is
// deleted, in one transaction.
//
// The floor is deliberately lossy: when intervening consumption already
// drove stock below what a strict reversal implies, the floor wins rather
// than going negative. When the subcategory no longer exists the stock half
// is skipped but the movement is still deleted, so history never keeps a
// record that can no longer be reversed.
func (s *Service) ReverseMovement(ctx context.Context, sess models.Session, movementID string) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	return s.store.RunTransaction(ctx, sess.HouseholdID, func(tx repository.Tx) error {
		mov, err := tx.Movement(movementID)
		if err != nil {
			return err
		}

		sub, err := tx.Subcategory(mov.SubcategoryID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("reversing movement of deleted subcategory",
				zap.String("movement", mov.ID),
				zap.String("subcategory", mov.SubcategoryID))
		case err != nil:
			return err
		default:
			reversed := sub.CurrentStock - mov.QuantityDelta
			if reversed < 0 {
				reversed = 0
			}
			tx.Apply(repository.SetStock{SubcategoryID: sub.ID, Value: reversed})
		}

		tx.Apply(repository.DeleteMovement{MovementID: mov.ID})
		return nil
	})
}
