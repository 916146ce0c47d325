package model

import "time"

// ContentMode selects how an assignment's content is interpreted.
type ContentMode string

const (
	ModeSimple   ContentMode = "SIMPLE"
	ModePlaylist ContentMode = "PLAYLIST"
	ModeSchedule ContentMode = "SCHEDULE"
)

// ContentAssignment binds one display to one content source. At most one row
// per display may have is_active = true; SaveAssignment enforces this inside
// a single transaction.
type ContentAssignment struct {
	ID              int         `db:"id"               json:"id"`
	DisplayID       int         `db:"display_id"       json:"display_id"`
	ContentMode     ContentMode `db:"content_mode"     json:"content_mode"`
	ContentType     string      `db:"content_type"     json:"content_type"`
	ContentValue    string      `db:"content_value"    json:"content_value"`
	PlaylistID      *int        `db:"playlist_id"      json:"playlist_id,omitempty"`
	ScheduleID      *int        `db:"schedule_id"      json:"schedule_id,omitempty"`
	DisplayDuration *int        `db:"display_duration" json:"display_duration,omitempty"`
	StartAt         *time.Time  `db:"start_at"         json:"start_at,omitempty"`
	EndAt           *time.Time  `db:"end_at"           json:"end_at,omitempty"`
	IsLoop          bool        `db:"is_loop"          json:"is_loop"`
	Priority        int         `db:"priority"         json:"priority"`
	IsActive        bool        `db:"is_active"        json:"is_active"`
	CreatedAt       time.Time   `db:"created_at"       json:"created_at"`
}
