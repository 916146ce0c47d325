package model

import "time"

// Item types understood by the playback engine. Anything else is
// ItemTypeUnknown and gets the fallback dwell duration.
const (
	ItemTypeVideo   = "video"
	ItemTypeImage   = "image"
	ItemTypeWeb     = "web"
	ItemTypeUnknown = "unknown"
)

type Playlist struct {
	ID          int            `db:"id"           json:"id"`
	Name        string         `db:"name"         json:"name"`
	Description *string        `db:"description"  json:"description,omitempty"`
	IsActive    bool           `db:"is_active"    json:"is_active"`
	CreatedBy   int            `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
	Items       []PlaylistItem `db:"-"            json:"items,omitempty"`
}

type PlaylistItem struct {
	ID         int       `db:"id"           json:"id"`
	PlaylistID int       `db:"playlist_id"  json:"playlist_id"`
	Position   int       `db:"position"     json:"position"`
	Name       string    `db:"name"         json:"name"`
	Type       string    `db:"type"         json:"type"`
	Duration   int       `db:"duration"     json:"duration"`
	SizeBytes  int64     `db:"size_bytes"   json:"size_bytes"`
	Source     string    `db:"source"       json:"source"`
	CreatedAt  time.Time `db:"created_at"   json:"created_at"`
}

// MoveItemUp swaps the item with its predecessor. Returns false when the
// item is missing or already first; positions are renumbered 1..N so they
// stay dense and match list order exactly.
func (p *Playlist) MoveItemUp(itemID int) bool {
	idx := p.indexOf(itemID)
	if idx <= 0 {
		return false
	}
	p.Items[idx-1], p.Items[idx] = p.Items[idx], p.Items[idx-1]
	p.renumber()
	return true
}

// MoveItemDown swaps the item with its successor. Returns false when the
// item is missing or already last.
func (p *Playlist) MoveItemDown(itemID int) bool {
	idx := p.indexOf(itemID)
	if idx < 0 || idx >= len(p.Items)-1 {
		return false
	}
	p.Items[idx], p.Items[idx+1] = p.Items[idx+1], p.Items[idx]
	p.renumber()
	return true
}

func (p *Playlist) indexOf(itemID int) int {
	for i := range p.Items {
		if p.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (p *Playlist) renumber() {
	for i := range p.Items {
		p.Items[i].Position = i + 1
	}
}
