package models

import (
	"time"
)

// Tip is one recorded on-chain transfer. Rows are append-only: never updated,
// never deleted. Signature is the external transaction's signature and
// carries the unique index the whole idempotency guarantee rests on.
type Tip struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatorID    uint      `gorm:"not null;index" json:"creator_id"`
	SenderWallet string    `gorm:"size:64;not null" json:"sender_wallet"`
	Amount       float64   `gorm:"not null" json:"amount"`
	Message      *string   `gorm:"type:text" json:"message"`
	Signature    string    `gorm:"uniqueIndex;size:128;not null" json:"signature"`
	CreatedAt    time.Time `json:"created_at"`

	Creator Creator `gorm:"foreignKey:CreatorID" json:"-"`
}

func (Tip) TableName() string {
	return "tips"
}
