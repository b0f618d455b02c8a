package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
)

// Session identifies whose cart is being operated on: a signed-in user or
// an anonymous guest session. Exactly one of the two fields is set.
type Session struct {
	UserID         *uuid.UUID
	GuestSessionID string
}

// Valid reports whether the session names an owner.
func (s Session) Valid() bool {
	return s.UserID != nil || strings.TrimSpace(s.GuestSessionID) != ""
}

// AddLineInput captures the payload to add a product to the cart.
type AddLineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// Service exposes cart operations over the dual guest/user persistence.
type Service interface {
	GetCart(ctx context.Context, session Session) (*CartDTO, error)
	AddLine(ctx context.Context, session Session, input AddLineInput) (*CartDTO, error)
	RemoveLine(ctx context.Context, session Session, key LineKey) (*CartDTO, error)
	SetQuantity(ctx context.Context, session Session, key LineKey, qty int) (*CartDTO, error)
	Clear(ctx context.Context, session Session) error
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestSessionID string) (*CartDTO, error)
	ConvertAfterCheckout(ctx context.Context, session Session) error
}

type guestCartStore interface {
	Load(ctx context.Context, sessionID string) ([]CartLine, error)
	Save(ctx context.Context, sessionID string, lines []CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

type userCartStore interface {
	Load(ctx context.Context, userID uuid.UUID) ([]CartLine, error)
	Save(ctx context.Context, userID uuid.UUID, lines []CartLine) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Convert(ctx context.Context, userID uuid.UUID) error
	Absorb(ctx context.Context, userID uuid.UUID, guestLines []CartLine) ([]CartLine, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	guest    guestCartStore
	user     userCartStore
	products productLoader
}

// NewService builds a cart service over the guest and user stores.
func NewService(guest guestCartStore, user userCartStore, products productLoader) (Service, error) {
	if guest == nil {
		return nil, fmt.Errorf("guest cart store required")
	}
	if user == nil {
		return nil, fmt.Errorf("user cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{guest: guest, user: user, products: products}, nil
}

// GetCart returns the session's cart with its subtotal.
func (s *service) GetCart(ctx context.Context, session Session) (*CartDTO, error) {
	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(lines), nil
}

// AddLine merges the product into the cart by line key, snapshotting name,
// image, and unit price at add time. Stock is not checked here; checkout
// validates against live stock.
func (s *service) AddLine(ctx context.Context, session Session, input AddLineInput) (*CartDTO, error) {
	if !session.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	prod, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !prod.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := validateVariant(prod, input.Size, input.Color); err != nil {
		return nil, err
	}

	line := CartLine{
		ProductID:     prod.ID,
		Name:          prod.Name,
		UnitPriceKobo: prod.PriceKobo,
		Quantity:      input.Quantity,
		Size:          input.Size,
		Color:         input.Color,
	}
	if len(prod.Images) > 0 {
		line.ImageURL = prod.Images[0]
	}

	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}
	lines = mergeLines(lines, []CartLine{line})

	if err := s.save(ctx, session, lines); err != nil {
		return nil, err
	}
	return NewCartDTO(lines), nil
}

// RemoveLine deletes the matching line. Removing an absent line is not an
// error.
func (s *service) RemoveLine(ctx context.Context, session Session, key LineKey) (*CartDTO, error) {
	if !session.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}

	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if line.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if removed {
		if err := s.save(ctx, session, kept); err != nil {
			return nil, err
		}
	}
	return NewCartDTO(kept), nil
}

// SetQuantity updates a line's quantity, clamping to a minimum of 1. A
// quantity edit never removes the line.
func (s *service) SetQuantity(ctx context.Context, session Session, key LineKey, qty int) (*CartDTO, error) {
	if !session.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if qty < 1 {
		qty = 1
	}

	lines, err := s.load(ctx, session)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].Key() == key {
			lines[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if err := s.save(ctx, session, lines); err != nil {
		return nil, err
	}
	return NewCartDTO(lines), nil
}

// Clear empties the cart and removes its durable record.
func (s *service) Clear(ctx context.Context, session Session) error {
	if !session.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if session.UserID != nil {
		if err := s.user.Clear(ctx, *session.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
		}
		return nil
	}
	if err := s.guest.Delete(ctx, session.GuestSessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: clear guest cart")
	}
	return nil
}

// MergeGuestCart folds the guest session's cart into the user's account
// cart at login, adding quantities for identical line keys. The guest
// record is deleted afterwards.
func (s *service) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestSessionID string) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if strings.TrimSpace(guestSessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest session id required")
	}

	guestLines, err := s.guest.Load(ctx, guestSessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load guest cart")
	}

	if len(guestLines) == 0 {
		if err := s.guest.Delete(ctx, guestSessionID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: drop guest cart")
		}
		lines, err := s.user.Load(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		return NewCartDTO(lines), nil
	}

	merged, err := s.user.Absorb(ctx, userID, guestLines)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: merge carts")
	}
	if err := s.guest.Delete(ctx, guestSessionID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: drop guest cart")
	}
	return NewCartDTO(merged), nil
}

// ConvertAfterCheckout retires the cart once its order has been recorded.
// User carts keep a converted record for history; guest carts are deleted.
func (s *service) ConvertAfterCheckout(ctx context.Context, session Session) error {
	if session.UserID != nil {
		return s.user.Convert(ctx, *session.UserID)
	}
	if strings.TrimSpace(session.GuestSessionID) != "" {
		return s.guest.Delete(ctx, session.GuestSessionID)
	}
	return nil
}

func (s *service) load(ctx context.Context, session Session) ([]CartLine, error) {
	if session.UserID != nil {
		lines, err := s.user.Load(ctx, *session.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		return lines, nil
	}
	if strings.TrimSpace(session.GuestSessionID) == "" {
		return []CartLine{}, nil
	}
	lines, err := s.guest.Load(ctx, session.GuestSessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load guest cart")
	}
	return lines, nil
}

func (s *service) save(ctx context.Context, session Session, lines []CartLine) error {
	if session.UserID != nil {
		if err := s.user.Save(ctx, *session.UserID, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart")
		}
		return nil
	}
	if err := s.guest.Save(ctx, session.GuestSessionID, lines); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: save guest cart")
	}
	return nil
}

func validateVariant(prod *models.Product, size, color string) error {
	if size != "" && len(prod.Sizes) > 0 && !containsFold(prod.Sizes, size) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %q not offered for %s", size, prod.Name))
	}
	if color != "" && len(prod.Colors) > 0 && !containsFold(prod.Colors, color) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("color %q not offered for %s", color, prod.Name))
	}
	return nil
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
