package hgmodel

import "time"

// UserStats holds per-contributor aggregates recomputed by the stats
// refresher whenever a workflow event lands for that contributor.
type UserStats struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id" gorm:"uniqueIndex"`
	User             *User     `json:"-" gorm:"foreignKey:UserID;references:ID"`
	TotalSubmissions int       `json:"total_submissions"`
	AcceptedCount    int       `json:"accepted_count"`
	RejectedCount    int       `json:"rejected_count"`
	ApprovalRate     float64   `json:"approval_rate"`
	LastActivityAt   time.Time `json:"last_activity_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
