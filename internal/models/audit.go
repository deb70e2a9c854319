package models

import "time"

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

// Audit is embedded in every soft-deletable record. Timestamps are set by
// Stamp at write time, never by gorm.
type Audit struct {
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Status    Status    `gorm:"type:varchar(16);not null;default:ACTIVE;index" json:"status"`
}

func (a *Audit) Stamp(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	a.UpdatedAt = now
}

func (a *Audit) MarkDeleted(now time.Time) {
	a.Status = StatusDeleted
	a.UpdatedAt = now
}

func (a Audit) Active() bool { return a.Status == StatusActive }
