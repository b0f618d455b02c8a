package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage stores a contact-form submission so the notification
// consumer has a durable record to mail out from.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	Message   string    `gorm:"column:message;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
