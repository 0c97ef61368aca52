package models

import "time"

// KYC verification states stored on the user.
const (
	KYCStatusNone     = "none"
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string             `gorm:"uniqueIndex;not null" json:"email"`
	Password            string             `gorm:"not null" json:"-"`
	DisplayName         string             `json:"display_name"`
	IsActive            bool               `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string             `gorm:"size:64" json:"-"`
	FailedLoginAttempts int                `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time         `json:"-"`
	LastLoginAt         *time.Time         `json:"last_login_at,omitempty"`
	KYCSessionID        string             `json:"-"`
	KYCStatus           string             `gorm:"size:32;default:'none'" json:"kyc_status"`
	WalletAddress       string             `gorm:"size:64" json:"wallet_address,omitempty"`
	WavzProfile         *WavzProfile       `gorm:"foreignKey:UserID" json:"wavz_profile,omitempty"`
	ConnectedAccounts   []ConnectedAccount `gorm:"foreignKey:UserID" json:"connected_accounts,omitempty"`
	Beats               []Beat             `gorm:"foreignKey:UserID" json:"beats,omitempty"`
}
