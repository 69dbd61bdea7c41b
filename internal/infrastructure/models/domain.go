package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Domain rows are never hard-deleted. Cancelled extras keep their row with
// is_active=false so the host stays reserved to the owning account.
type Domain struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AccountID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Host          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Kind          string    `gorm:"type:varchar(20);not null"` // base | extra
	IsActive      bool      `gorm:"default:true;not null"`
	Price         *float64  `gorm:"type:decimal(10,2)"`
	NextBillingAt *time.Time
	BillingRef    *string `gorm:"type:varchar(255)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	Account       Account        `gorm:"foreignKey:AccountID"`
}
