package model

import "time"

// Display represents one physical output device in the system.
type Display struct {
	ID        int       `db:"id"           json:"id"`
	Name      string    `db:"name"         json:"name"`
	IsPrimary bool      `db:"is_primary"   json:"is_primary"`
	CreatedBy int       `db:"created_by"   json:"created_by"`
	CreatedAt time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt time.Time `db:"updated_at"   json:"updated_at"`
}
