package packets

import "time"

type PlayerItemResponse struct {
	ID       int    `json:"id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Source   string `json:"source"`
}

// PlayerContentResponse is what a display device polls for: the content it
// should currently show, flattened to what the player needs to render.
type PlayerContentResponse struct {
	DisplayID   int                  `json:"display_id"`
	ContentMode string               `json:"content_mode"`
	ContentType string               `json:"content_type,omitempty"`
	Source      string               `json:"source,omitempty"`
	Duration    *int                 `json:"duration,omitempty"`
	IsLoop      bool                 `json:"is_loop"`
	Status      string               `json:"status"`
	Items       []PlayerItemResponse `json:"items,omitempty"`
	State       string               `json:"state,omitempty"`
	Generation  uint64               `json:"generation"`
	ResolvedAt  time.Time            `json:"resolved_at"`
}
