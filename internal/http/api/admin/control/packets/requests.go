package packets

import "time"

type CreateDisplayRequest struct {
	Name      string `json:"name" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

type UpdateDisplayRequest struct {
	Name      *string `json:"name"`
	IsPrimary *bool   `json:"is_primary"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddPlaylistItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=video image web unknown"`
	Duration  int    `json:"duration"`
	SizeBytes int64  `json:"size_bytes"`
	Source    string `json:"source" binding:"required"`
}

type UpdatePlaylistItemRequest struct {
	Name     *string `json:"name"`
	Duration *int    `json:"duration"`
}

type ReorderPlaylistItemsRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required"`
}

type AssignContentRequest struct {
	ContentMode     string     `json:"content_mode" binding:"required,oneof=SIMPLE PLAYLIST SCHEDULE"`
	ContentType     string     `json:"content_type"`
	ContentValue    string     `json:"content_value"`
	PlaylistID      *int       `json:"playlist_id"`
	ScheduleID      *int       `json:"schedule_id"`
	DisplayDuration *int       `json:"display_duration"`
	StartAt         *time.Time `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	IsLoop          bool       `json:"is_loop"`
	Priority        int        `json:"priority"`
}

type CreateScheduleRequest struct {
	Name         string     `json:"name" binding:"required"`
	ScheduleType string     `json:"schedule_type"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	DaysOfWeek   string     `json:"days_of_week"`
}

type UpdateScheduleRequest struct {
	Name       *string    `json:"name"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	DaysOfWeek *string    `json:"days_of_week"`
	IsActive   *bool      `json:"is_active"`
}
