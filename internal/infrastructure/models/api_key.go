package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiKey stores only the SHA256 of the raw secret. A partial unique index
// (domain_id) WHERE is_active backs the one-active-key-per-domain invariant
// in postgres; the repository enforces it transactionally as well.
type ApiKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	DomainID     uuid.UUID `gorm:"type:uuid;not null;index"`
	KeyPrefix    string    `gorm:"type:varchar(20);not null"`
	KeyHash      string    `gorm:"type:varchar(64);uniqueIndex;not null"` // SHA256 of key
	SecretMasked string    `gorm:"type:varchar(20);not null"`             // "nw_live_****abcd"
	Description  *string   `gorm:"type:text"`
	IsActive     bool      `gorm:"default:true;not null"`
	RevokedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	Domain       Domain         `gorm:"foreignKey:DomainID"`
}
