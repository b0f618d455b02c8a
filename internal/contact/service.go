package contact

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox/payloads"
)

const (
	maxNameLen    = 120
	maxSubjectLen = 200
	maxMessageLen = 5000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitInput carries a contact-form submission from the API.
type SubmitInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// MessageDTO is the acknowledgement returned to the storefront.
type MessageDTO struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}

// Service accepts contact-form submissions and hands them to the
// notification pipeline via the outbox.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams packages the contact service dependencies.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Outbox outboxPublisher
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the contact service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: params.Repo, tx: params.Tx, outbox: params.Outbox}, nil
}

// Submit validates the form fields, stores the message, and emits
// contact_message in the same transaction.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	subject := strings.TrimSpace(input.Subject)
	message := strings.TrimSpace(input.Message)

	switch {
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case email == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	case subject == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	case message == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email must be a valid address")
	}
	if len(name) > maxNameLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is too long")
	}
	if len(subject) > maxSubjectLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is too long")
	}
	if len(message) > maxMessageLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is too long")
	}

	msg := &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, msg)
		if err != nil {
			return err
		}
		msg = created

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventContactMessageReceived,
			AggregateType: enums.AggregateContact,
			AggregateID:   msg.ID,
			Version:       1,
			Data: payloads.ContactMessageReceivedEvent{
				MessageID:  msg.ID,
				Name:       msg.Name,
				Email:      msg.Email,
				Subject:    msg.Subject,
				ReceivedAt: msg.CreatedAt,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: store contact message")
	}

	return &MessageDTO{ID: msg.ID, ReceivedAt: msg.CreatedAt}, nil
}
