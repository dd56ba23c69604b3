package models

import "time"

// BlacklistedToken is a revoked access token. Rows are purged once the token
// itself would have expired.
type BlacklistedToken struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TokenHash     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt     time.Time `gorm:"index;not null" json:"expires_at"`
	BlacklistedOn time.Time `gorm:"autoCreateTime" json:"blacklisted_on"`
}
