package model

import "time"

type Schedule struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	ScheduleType string     `db:"schedule_type" json:"schedule_type"`
	StartTime    *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime      *time.Time `db:"end_time" json:"end_time,omitempty"`
	DaysOfWeek   string     `db:"days_of_week" json:"days_of_week"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	CreatedBy    int        `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
