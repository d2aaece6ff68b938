package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the payment record created alongside every movie. Gateway fields
// stay empty until a package is chosen; PaymentID is set once the payment is
// confirmed.
type Order struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID        uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index"`
	Owner          User       `gorm:"foreignKey:OwnerID"`
	GatewayOrderID *string    `gorm:"column:gateway_order_id;uniqueIndex"`
	Amount         int64      `gorm:"column:amount;not null;default:0"`
	Currency       string     `gorm:"column:currency;type:text;not null;default:'INR'"`
	Receipt        *string    `gorm:"column:receipt"`
	PaymentID      *string    `gorm:"column:payment_id"`
	PaidAt         *time.Time `gorm:"column:paid_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// IsPaid reports whether a payment has been recorded.
func (o Order) IsPaid() bool {
	return o.PaymentID != nil && *o.PaymentID != ""
}
