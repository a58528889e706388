package models

import (
	"time"
)

type Creator struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:64;not null" json:"username"`
	DisplayName  string  `gorm:"size:128;not null" json:"display_name"`
	Email        string  `gorm:"size:255;not null" json:"email"`
	Bio          *string `gorm:"type:text" json:"bio"`
	ProfileImage *string `gorm:"size:512" json:"profile_image"`
	// WalletAddress is written only by the wallet-link flow after a verified
	// signature; the generic update path never touches it.
	WalletAddress *string   `gorm:"size:64;index" json:"wallet_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Creator) TableName() string {
	return "creators"
}
