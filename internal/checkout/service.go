package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/internal/cart"
	"github.com/velvetrow/velvetrow-backend/internal/orders"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/metrics"
	"github.com/velvetrow/velvetrow-backend/pkg/paystack"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// BeginInput carries the shopper's checkout form.
type BeginInput struct {
	CustomerName    string               `json:"customer_name" validate:"required"`
	CustomerEmail   string               `json:"customer_email" validate:"required,email"`
	CustomerPhone   *string              `json:"customer_phone,omitempty"`
	ShippingAddress types.Address        `json:"shipping_address" validate:"required"`
	ShippingMethod  enums.ShippingMethod `json:"shipping_method" validate:"required"`
}

// BeginResult is returned after a successful initialization: the shopper
// is redirected to the hosted payment page.
type BeginResult struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	SubtotalKobo     int64  `json:"subtotal_kobo"`
	ShippingKobo     int64  `json:"shipping_kobo"`
	TotalKobo        int64  `json:"total_kobo"`
}

// Service coordinates a checkout from cart validation through payment
// verification, order recording, and stock reconciliation.
type Service interface {
	Begin(ctx context.Context, session cart.Session, input BeginInput) (*BeginResult, error)
	Confirm(ctx context.Context, reference string) (*orders.OrderDTO, error)
}

type cartAccessor interface {
	GetCart(ctx context.Context, session cart.Session) (*cart.CartDTO, error)
	ConvertAfterCheckout(ctx context.Context, session cart.Session) error
}

type stockReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
}

type paymentGateway interface {
	InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.VerifyResult, error)
}

type attemptStore interface {
	Save(ctx context.Context, attempt Attempt) error
	Load(ctx context.Context, reference string) (*Attempt, error)
	Delete(ctx context.Context, reference string) error
}

type orderRecorder interface {
	RecordOrder(ctx context.Context, input orders.RecordOrderInput) (*orders.OrderDTO, error)
}

type stockReconciler interface {
	Reconcile(ctx context.Context, orderID uuid.UUID, reference string, lines []ReconcileLine) ReconcileResult
}

type shippingRates interface {
	RateKobo(ctx context.Context, method enums.ShippingMethod) (int64, error)
}

// ServiceParams wires the checkout coordinator dependencies.
type ServiceParams struct {
	Carts       cartAccessor
	Stock       stockReader
	Gateway     paymentGateway
	Attempts    attemptStore
	Orders      orderRecorder
	Reconciler  stockReconciler
	Shipping    shippingRates
	Metrics     *metrics.CheckoutMetrics
	Logger      *logger.Logger
	CallbackURL string
}

type service struct {
	carts       cartAccessor
	stock       stockReader
	gateway     paymentGateway
	attempts    attemptStore
	orders      orderRecorder
	reconciler  stockReconciler
	shipping    shippingRates
	metrics     *metrics.CheckoutMetrics
	logg        *logger.Logger
	callbackURL string
	now         func() time.Time
}

// NewService builds the checkout coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Attempts == nil {
		return nil, fmt.Errorf("attempt store required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order recorder required")
	}
	if params.Reconciler == nil {
		return nil, fmt.Errorf("stock reconciler required")
	}
	if params.Shipping == nil {
		return nil, fmt.Errorf("shipping rates required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:       params.Carts,
		stock:       params.Stock,
		gateway:     params.Gateway,
		attempts:    params.Attempts,
		orders:      params.Orders,
		reconciler:  params.Reconciler,
		shipping:    params.Shipping,
		metrics:     params.Metrics,
		logg:        params.Logger,
		callbackURL: params.CallbackURL,
		now:         time.Now,
	}, nil
}

// Begin validates the cart against live stock, initializes the gateway
// transaction, and parks the attempt until the shopper returns.
func (s *service) Begin(ctx context.Context, session cart.Session, input BeginInput) (*BeginResult, error) {
	started := s.now()
	if !session.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if err := validateBeginInput(input); err != nil {
		return nil, err
	}

	cartDTO, err := s.carts.GetCart(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(cartDTO.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCart, "cart is empty")
	}
	if err := s.validateStock(ctx, cartDTO.Lines); err != nil {
		s.metrics.IncOutcome("invalid_cart")
		return nil, err
	}

	shippingKobo, err := s.shipping.RateKobo(ctx, input.ShippingMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping rate")
	}
	total := cartDTO.SubtotalKobo + shippingKobo

	reference := fmt.Sprintf("order_%d", s.now().UnixMilli())
	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))

	init, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountMinor: total,
		Reference:   reference,
		Currency:    string(enums.CurrencyNGN),
		CallbackURL: s.callbackURL,
		Metadata: map[string]any{
			"line_count": len(cartDTO.Lines),
		},
	})
	if err != nil {
		return nil, err
	}

	attempt := Attempt{
		Reference:       reference,
		UserID:          session.UserID,
		GuestSessionID:  session.GuestSessionID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   email,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ShippingMethod:  input.ShippingMethod,
		ShippingKobo:    shippingKobo,
		SubtotalKobo:    cartDTO.SubtotalKobo,
		TotalKobo:       total,
		Lines:           cartDTO.Lines,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.attempts.Save(ctx, attempt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: save checkout attempt")
	}

	s.metrics.ObservePhase("begin", s.now().Sub(started))
	return &BeginResult{
		Reference:        reference,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
		SubtotalKobo:     cartDTO.SubtotalKobo,
		ShippingKobo:     shippingKobo,
		TotalKobo:        total,
	}, nil
}

// Confirm verifies the payment and drives the attempt to its terminal
// state: recorded order, cancelled, or failed.
func (s *service) Confirm(ctx context.Context, reference string) (*orders.OrderDTO, error) {
	started := s.now()
	attempt, err := s.attempts.Load(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout attempt not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load checkout attempt")
	}

	verify, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if verify.Abandoned() {
		s.metrics.IncOutcome("payment_cancelled")
		if err := s.attempts.Delete(ctx, reference); err != nil {
			s.logg.Error(ctx, "drop cancelled checkout attempt", err)
		}
		return nil, pkgerrors.New(pkgerrors.CodePaymentCancelled, "payment was cancelled")
	}
	if !verify.Succeeded() {
		s.metrics.IncOutcome("payment_failed")
		if err := s.attempts.Delete(ctx, reference); err != nil {
			s.logg.Error(ctx, "drop failed checkout attempt", err)
		}
		message := verify.GatewayMessage
		if strings.TrimSpace(message) == "" {
			message = fmt.Sprintf("payment %s", verify.Status)
		}
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed, message)
	}

	if verify.AmountMinor != attempt.TotalKobo || !strings.EqualFold(verify.Currency, string(enums.CurrencyNGN)) {
		s.metrics.IncOutcome("payment_failed")
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"reference":         reference,
			"charged_minor":     verify.AmountMinor,
			"charged_currency":  verify.Currency,
			"expected_kobo":     attempt.TotalKobo,
			"expected_currency": enums.CurrencyNGN,
		})
		s.logg.Error(logCtx, "verified payment does not match checkout attempt", nil)
		// The attempt is kept until its TTL so the mismatch can be inspected.
		return nil, pkgerrors.New(pkgerrors.CodePaymentFailed,
			fmt.Sprintf("payment of %d %s does not match the expected total of %d %s",
				verify.AmountMinor, verify.Currency, attempt.TotalKobo, enums.CurrencyNGN))
	}

	order, err := s.recordOrder(ctx, attempt, verify)
	if err != nil {
		return nil, err
	}

	result := s.reconciler.Reconcile(ctx, order.ID, reference, reconcileLines(order))
	for range result.Skipped() {
		s.metrics.IncReconcileSkipped()
	}

	if err := s.carts.ConvertAfterCheckout(ctx, attempt.Session()); err != nil {
		// The order stands; a stale cart is recoverable.
		s.logg.Error(ctx, "convert cart after checkout", err)
	}
	if err := s.attempts.Delete(ctx, reference); err != nil {
		s.logg.Error(ctx, "drop settled checkout attempt", err)
	}

	s.metrics.IncOutcome("success")
	s.metrics.ObservePhase("confirm", s.now().Sub(started))
	return order, nil
}

func (s *service) recordOrder(ctx context.Context, attempt *Attempt, verify *paystack.VerifyResult) (*orders.OrderDTO, error) {
	lines := make([]orders.RecordOrderLine, 0, len(attempt.Lines))
	for _, line := range attempt.Lines {
		productID := line.ProductID
		lines = append(lines, orders.RecordOrderLine{
			ProductID:     &productID,
			Name:          line.Name,
			Size:          line.Size,
			Color:         line.Color,
			ImageURL:      line.ImageURL,
			UnitPriceKobo: line.UnitPriceKobo,
			Quantity:      line.Quantity,
		})
	}

	paidAt := s.now().UTC()
	if verify.PaidAt != nil {
		paidAt = *verify.PaidAt
	}

	order, err := s.orders.RecordOrder(ctx, orders.RecordOrderInput{
		Reference:       attempt.Reference,
		UserID:          attempt.UserID,
		CustomerName:    attempt.CustomerName,
		CustomerEmail:   attempt.CustomerEmail,
		CustomerPhone:   attempt.CustomerPhone,
		ShippingAddress: attempt.ShippingAddress,
		ShippingMethod:  attempt.ShippingMethod,
		ShippingKobo:    attempt.ShippingKobo,
		Lines:           lines,
		PaidAt:          paidAt,
	})
	if err != nil {
		s.metrics.IncOutcome("order_recording_failed")
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"reference":   attempt.Reference,
			"cart_lines":  attempt.Lines,
			"occurred_at": s.now().UTC(),
		})
		s.logg.Error(logCtx, "payment captured but order recording failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderRecordingFailed, err,
			fmt.Sprintf("payment succeeded but the order could not be recorded; contact support and quote payment reference %s", attempt.Reference)).
			WithDetails(map[string]any{"reference": attempt.Reference})
	}
	return order, nil
}

func (s *service) validateStock(ctx context.Context, lines []cart.CartLine) error {
	for _, line := range lines {
		product, err := s.resolveProduct(ctx, line)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeInvalidCart,
				fmt.Sprintf("%q is no longer available", line.Name))
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeInvalidCart,
				fmt.Sprintf("%q is no longer available", line.Name))
		}
		if product.StockQty < line.Quantity {
			return pkgerrors.New(pkgerrors.CodeInvalidCart,
				fmt.Sprintf("%q has only %d in stock (requested %d)", line.Name, product.StockQty, line.Quantity))
		}
	}
	return nil
}

func (s *service) resolveProduct(ctx context.Context, line cart.CartLine) (*models.Product, error) {
	product, err := s.stock.FindByID(ctx, line.ProductID)
	if err == nil {
		return product, nil
	}
	return s.stock.FindByName(ctx, line.Name)
}

func reconcileLines(order *orders.OrderDTO) []ReconcileLine {
	lines := make([]ReconcileLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReconcileLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}
	return lines
}

func validateBeginInput(input BeginInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if input.ShippingAddress.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipping method %q", input.ShippingMethod))
	}
	return nil
}
