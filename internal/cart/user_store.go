package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserStore persists signed-in customer carts in Postgres. One active cart
// record exists per user; superseded records keep their terminal status.
type UserStore struct {
	repo *Repository
	tx   txRunner
}

// NewUserStore builds the Postgres-backed cart store.
func NewUserStore(repo *Repository, tx txRunner) (*UserStore, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &UserStore{repo: repo, tx: tx}, nil
}

// Load returns the user's active cart lines, or an empty slice.
func (s *UserStore) Load(ctx context.Context, userID uuid.UUID) ([]CartLine, error) {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return []CartLine{}, nil
	}
	return linesFromItems(record.Items), nil
}

// Save overwrites the active cart's lines, creating the record on first use.
func (s *UserStore) Save(ctx context.Context, userID uuid.UUID, lines []CartLine) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}
		if record == nil {
			_, err := repo.Create(ctx, &models.CartRecord{
				UserID: userID,
				Items:  itemsFromLines(uuid.Nil, lines),
			})
			return err
		}
		return repo.ReplaceItems(ctx, record.ID, itemsFromLines(record.ID, lines))
	})
}

// Clear removes the user's active cart record entirely.
func (s *UserStore) Clear(ctx context.Context, userID uuid.UUID) error {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	return s.repo.Delete(ctx, record.ID)
}

// Convert marks the active cart as converted after a successful checkout,
// leaving the record behind for history.
func (s *UserStore) Convert(ctx context.Context, userID uuid.UUID) error {
	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}
	return s.repo.UpdateStatus(ctx, record.ID, enums.CartStatusConverted)
}

// Absorb folds guest lines into the user's cart at login. When an account
// cart already exists it is marked merged and a fresh active record takes
// its place carrying the combined lines.
func (s *UserStore) Absorb(ctx context.Context, userID uuid.UUID, guestLines []CartLine) ([]CartLine, error) {
	var merged []CartLine
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}

		if record == nil {
			merged = append([]CartLine(nil), guestLines...)
		} else {
			merged = mergeLines(linesFromItems(record.Items), guestLines)
			if err := repo.UpdateStatus(ctx, record.ID, enums.CartStatusMerged); err != nil {
				return err
			}
		}

		_, err = repo.Create(ctx, &models.CartRecord{
			UserID: userID,
			Items:  itemsFromLines(uuid.Nil, merged),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}
