package packets

import "time"

type DisplayResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PlaylistItemResponse struct {
	ID        int    `json:"id"`
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	SizeBytes int64  `json:"size_bytes"`
	Source    string `json:"source"`
}

type PlaylistResponse struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Items       []PlaylistItemResponse `json:"items"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type MoveItemResponse struct {
	Moved bool `json:"moved"`
}

type AssignmentResponse struct {
	ID              int        `json:"id"`
	DisplayID       int        `json:"display_id"`
	ContentMode     string     `json:"content_mode"`
	ContentType     string     `json:"content_type"`
	ContentValue    string     `json:"content_value"`
	PlaylistID      *int       `json:"playlist_id,omitempty"`
	ScheduleID      *int       `json:"schedule_id,omitempty"`
	DisplayDuration *int       `json:"display_duration,omitempty"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	IsLoop          bool       `json:"is_loop"`
	Priority        int        `json:"priority"`
	CreatedAt       time.Time  `json:"created_at"`
}

type ScheduleResponse struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	ScheduleType string     `json:"schedule_type"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	DaysOfWeek   string     `json:"days_of_week"`
	IsActive     bool       `json:"is_active"`
}

type ResolvedContentResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Playlist   *PlaylistResponse  `json:"playlist,omitempty"`
	Schedule   *ScheduleResponse  `json:"schedule,omitempty"`
	Status     string             `json:"status"`
}

type MediaUploadResponse struct {
	URL string `json:"url"`
}
