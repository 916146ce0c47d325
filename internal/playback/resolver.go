package playback

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/model"
)

// ErrNoAssignment means the display has no active assignment. It is a normal
// resolved state, not a fault; callers treat it as "display idle".
var ErrNoAssignment = errors.New("no active assignment for display")

// Status tags a resolved SCHEDULE assignment relative to its time window.
// SIMPLE and PLAYLIST assignments are always live.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusLive    Status = "LIVE"
	StatusExpired Status = "EXPIRED"
)

// ResolvedContent is the single authoritative answer to "what should this
// display show right now". It is derived, never persisted, and never cached
// across an assignment write.
type ResolvedContent struct {
	Assignment model.ContentAssignment
	Playlist   *model.Playlist
	Schedule   *model.Schedule
	Status     Status
}

// Resolver computes ResolvedContent from the store. Pure read: no side
// effects, repository errors propagate unchanged.
type Resolver struct {
	store db.Store
}

func NewResolver(store db.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve picks the display's winning active assignment and joins its
// playlist and schedule. More than one active row violates the assignment
// invariant; the resolver still answers deterministically (highest priority,
// then highest id) and logs the condition for operators.
func (r *Resolver) Resolve(displayID int, now time.Time) (*ResolvedContent, error) {
	rows, err := r.store.GetActiveAssignments(displayID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoAssignment
	}
	if len(rows) > 1 {
		log.Warn().Int("display_id", displayID).Int("active_rows", len(rows)).
			Msg("[resolver] multiple active assignments for display, picking highest priority")
	}

	a := rows[0]
	rc := &ResolvedContent{Assignment: a, Status: StatusLive}

	if a.PlaylistID != nil {
		pl, err := r.store.GetPlaylistByID(*a.PlaylistID)
		if err != nil {
			return nil, err
		}
		rc.Playlist = &pl
	}
	if a.ScheduleID != nil {
		sch, err := r.store.GetSchedule(*a.ScheduleID)
		if err != nil {
			return nil, err
		}
		rc.Schedule = &sch
	}

	if a.ContentMode == model.ModeSchedule {
		rc.Status = windowStatus(a.StartAt, a.EndAt, now)
	}
	return rc, nil
}

func windowStatus(start, end *time.Time, now time.Time) Status {
	if start != nil && now.Before(*start) {
		return StatusPending
	}
	if end != nil && now.After(*end) {
		return StatusExpired
	}
	return StatusLive
}
