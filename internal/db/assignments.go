package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/model"
)

// GetActiveAssignments returns every active assignment for a display, best
// candidate first. Under the one-active-row invariant the slice has at most
// one element; the resolver tolerates more and logs the violation.
func (s *pgStore) GetActiveAssignments(displayID int) ([]model.ContentAssignment, error) {
	var out []model.ContentAssignment
	const q = `
	SELECT id, display_id, content_mode, content_type, content_value,
	       playlist_id, schedule_id, display_duration, start_at, end_at,
	       is_loop, priority, is_active, created_at
	FROM display_content
	WHERE display_id = $1 AND is_active = true
	ORDER BY priority DESC, id DESC;
	`
	if err := s.db.Select(&out, q, displayID); err != nil {
		log.Error().Err(err).Int("display_id", displayID).Msg("[db] GetActiveAssignments failed")
		return nil, err
	}
	return out, nil
}

// SaveAssignment supersedes the display's current assignment. Deactivating
// the old row and inserting the new one happen in a single transaction so a
// concurrent Resolve can never observe two active rows.
func (s *pgStore) SaveAssignment(a model.ContentAssignment) (saved model.ContentAssignment, err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return model.ContentAssignment{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.Exec(`
		UPDATE display_content
		   SET is_active = false
		 WHERE display_id = $1 AND is_active = true;`,
		a.DisplayID,
	); err != nil {
		log.Error().Err(err).Int("display_id", a.DisplayID).
			Msg("[db] SaveAssignment: failed to deactivate previous assignment")
		return model.ContentAssignment{}, err
	}

	if err = tx.Get(&saved, `
		INSERT INTO display_content
		(display_id, content_mode, content_type, content_value,
		 playlist_id, schedule_id, display_duration, start_at, end_at,
		 is_loop, priority, is_active, created_at)
		VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, now())
		RETURNING id, display_id, content_mode, content_type, content_value,
		          playlist_id, schedule_id, display_duration, start_at, end_at,
		          is_loop, priority, is_active, created_at;`,
		a.DisplayID, a.ContentMode, a.ContentType, a.ContentValue,
		a.PlaylistID, a.ScheduleID, a.DisplayDuration, a.StartAt, a.EndAt,
		a.IsLoop, a.Priority,
	); err != nil {
		log.Error().Err(err).Int("display_id", a.DisplayID).
			Msg("[db] SaveAssignment: failed to insert assignment")
		return model.ContentAssignment{}, err
	}
	return saved, err
}

// ClearAssignment deactivates whatever the display is currently assigned.
// Clearing an unassigned display is a no-op.
func (s *pgStore) ClearAssignment(displayID int) error {
	_, err := s.db.Exec(`
		UPDATE display_content
		   SET is_active = false
		 WHERE display_id = $1 AND is_active = true;`,
		displayID,
	)
	if err != nil {
		log.Error().Err(err).Int("display_id", displayID).Msg("[db] ClearAssignment failed")
	}
	return err
}

// GetDisplaysUsingPlaylist returns all displays whose active assignment
// references the playlist, so playlist edits can be pushed to them.
func (s *pgStore) GetDisplaysUsingPlaylist(playlistID int) ([]model.Display, error) {
	var displays []model.Display
	const q = `
	SELECT d.id, d.name, d.is_primary, d.created_by, d.created_at, d.updated_at
	  FROM displays d
	  JOIN display_content dc ON d.id = dc.display_id
	 WHERE dc.playlist_id = $1
	   AND dc.is_active = true;
	`
	if err := s.db.Select(&displays, q, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] GetDisplaysUsingPlaylist failed")
		return nil, err
	}
	return displays, nil
}
