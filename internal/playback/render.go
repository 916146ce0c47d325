package playback

// RenderItem is the single unit handed to the rendering layer. Generation is
// echoed back in finished/failed reports so signals for superseded items can
// be discarded.
type RenderItem struct {
	DisplayID    int    `json:"display_id"`
	Type         string `json:"type"`
	Source       string `json:"source"`
	DurationHint int    `json:"duration_hint"`
	Generation   uint64 `json:"generation"`
}

// RenderPort is the boundary to the rendering layer. Called with the
// sequencer lock held, so implementations should return promptly.
type RenderPort interface {
	Render(item RenderItem) error
	// Clear blanks the display after playback stops or finishes.
	Clear(displayID int) error
}
