package models

import "time"

// CartSnapshot stores one cart per browsing session as a single JSON
// blob. The cart ledger rewrites the whole payload on every mutation,
// so the row is always internally consistent (last writer wins).
type CartSnapshot struct {
	SessionKey string    `gorm:"primaryKey" json:"session_key"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt  time.Time `json:"updated_at"`
}
