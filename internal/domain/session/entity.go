package session

import "time"

// Session is a time-boxed Open Studio window against which bookings are
// anchored. Sessions are produced by the schedule generator; once bookings
// exist they are immutable except for the cancellation flag.
type Session struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	StudioID    int64     `gorm:"column:studio_id;index" json:"studio_id"`
	ClassID     int64     `gorm:"column:class_id" json:"class_id"`
	StartTime   time.Time `gorm:"column:start_time;index" json:"start_time"`
	EndTime     time.Time `gorm:"column:end_time" json:"end_time"`
	IsCancelled bool      `gorm:"column:is_cancelled;default:false" json:"is_cancelled"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Session) TableName() string { return "open_studio_sessions" }

// SessionDate returns the calendar day of the session in UTC.
func (s *Session) SessionDate() string {
	return s.StartTime.UTC().Format("2006-01-02")
}

// ResourceHold reserves units of a resource for a scheduled class,
// reducing Open Studio availability without creating a booking row.
// Read-only input to the availability engine.
type ResourceHold struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	SessionID  int64     `gorm:"column:session_id;index" json:"session_id"`
	ResourceID int64     `gorm:"column:resource_id;index" json:"resource_id"`
	Quantity   int       `gorm:"column:quantity" json:"quantity"`
	StartTime  time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime    time.Time `gorm:"column:end_time" json:"end_time"`
	Reason     string    `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ResourceHold) TableName() string { return "resource_holds" }
