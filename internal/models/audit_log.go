package models

// AuditLog records a mutating API action for traceability.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;index" json:"user_id"`
	Action       string `gorm:"size:64;not null" json:"action"`
	ResourceType string `gorm:"size:64" json:"resource_type"`
	ResourceID   string `gorm:"size:64" json:"resource_id"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	Changes      string `gorm:"type:text" json:"changes,omitempty"`
}
