package db

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/model"
)

func (s *pgStore) CreatePlaylist(name, description string, createdBy int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	INSERT INTO playlists (name, description, is_active, created_by, created_at, updated_at)
	VALUES ($1, $2, true, $3, now(), now())
	RETURNING id, name, description, is_active, created_by, created_at, updated_at;
	`
	if err := s.db.Get(&p, q, name, description, createdBy); err != nil {
		log.Error().Err(err).Msg("[db] CreatePlaylist: failed to insert playlist")
		return model.Playlist{}, err
	}
	return p, nil
}

func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT id, name, description, is_active, created_by, created_at, updated_at
	FROM playlists
	WHERE id = $1;
	`
	if err := s.db.Get(&p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Playlist{}, sql.ErrNoRows
		}
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] GetPlaylistByID failed")
		return model.Playlist{}, err
	}

	items, err := s.GetPlaylistItems(id)
	if err != nil {
		return p, err
	}
	p.Items = items
	return p, nil
}

func (s *pgStore) ListPlaylists() ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `SELECT id, name, description, is_active, created_by, created_at, updated_at FROM playlists ORDER BY id;`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylists failed")
		return nil, err
	}

	for i := range out {
		items, err := s.GetPlaylistItems(out[i].ID)
		if err != nil {
			log.Error().Err(err).Msgf("[db] ListPlaylists: failed to load items for playlist %d", out[i].ID)
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (s *pgStore) UpdatePlaylist(id int, name, description *string) error {
	_, err := s.db.Exec(`
		UPDATE playlists
		SET
		name        = COALESCE($2, name),
		description = COALESCE($3, description),
		updated_at  = now()
		WHERE id = $1;`,
		id, name, description,
	)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] UpdatePlaylist failed")
	}
	return err
}

// DeletePlaylist removes the playlist and all of its items in one transaction.
func (s *pgStore) DeletePlaylist(id int) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM playlist_items WHERE playlist_id = $1;`, id); err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] DeletePlaylist: failed to delete items")
		return err
	}
	if _, err = tx.Exec(`DELETE FROM playlists WHERE id = $1;`, id); err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] DeletePlaylist: failed to delete playlist")
		return err
	}
	return nil
}

func (s *pgStore) GetPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	var list []model.PlaylistItem
	const q = `
	SELECT id, playlist_id, position, name, type, duration, size_bytes, source, created_at
	FROM playlist_items
	WHERE playlist_id = $1
	ORDER BY position;
	`
	err := s.db.Select(&list, q, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] GetPlaylistItems failed")
	}
	return list, err
}

// AddPlaylistItem appends the item at the end of the playlist (position N+1).
func (s *pgStore) AddPlaylistItem(playlistID int, name, itemType, source string, duration int, sizeBytes int64) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	const q = `
	INSERT INTO playlist_items
	(playlist_id, position, name, type, duration, size_bytes, source, created_at)
	VALUES
	($1,
	 (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_items WHERE playlist_id = $1),
	 $2, $3, $4, $5, $6, now())
	RETURNING id, playlist_id, position, name, type, duration, size_bytes, source, created_at;
	`
	if err := s.db.Get(&it, q, playlistID, name, itemType, duration, sizeBytes, source); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] AddPlaylistItem failed")
		return model.PlaylistItem{}, err
	}
	return it, nil
}

func (s *pgStore) UpdatePlaylistItem(itemID int, name *string, duration *int) error {
	_, err := s.db.Exec(`
		UPDATE playlist_items
		SET
		name     = COALESCE($2, name),
		duration = COALESCE($3, duration)
		WHERE id = $1;`,
		itemID, name, duration,
	)
	if err != nil {
		log.Error().Err(err).Int("item_id", itemID).Msg("[db] UpdatePlaylistItem failed")
	}
	return err
}

// RemovePlaylistItem deletes the item and closes the gap so positions stay
// dense 1..N.
func (s *pgStore) RemovePlaylistItem(playlistID, itemID int) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var pos int
	if err = tx.Get(&pos, `SELECT position FROM playlist_items WHERE id = $1 AND playlist_id = $2;`, itemID, playlistID); err != nil {
		return err
	}
	if _, err = tx.Exec(`DELETE FROM playlist_items WHERE id = $1;`, itemID); err != nil {
		return err
	}
	if _, err = tx.Exec(`
		UPDATE playlist_items
		   SET position = position - 1
		 WHERE playlist_id = $1 AND position > $2;`, playlistID, pos); err != nil {
		return err
	}
	return nil
}

func (s *pgStore) ReorderPlaylistItems(playlistID int, itemIDs []int) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// shift everything out of the way first so the UNIQUE (playlist_id,
	// position) constraint cannot trip mid-rewrite
	count := len(itemIDs)
	if _, err = tx.Exec(`
		UPDATE playlist_items
		   SET position = position + $1
		 WHERE playlist_id = $2;
	`, count, playlistID); err != nil {
		return err
	}

	for idx, itemID := range itemIDs {
		newPos := idx + 1
		if _, err = tx.Exec(`
			UPDATE playlist_items
			   SET position = $1
			 WHERE id = $2
			   AND playlist_id = $3;
		`, newPos, itemID, playlistID); err != nil {
			return err
		}
	}

	return nil
}

// MovePlaylistItemUp swaps the item with its predecessor and persists the
// renumbered positions for the whole list. Returns false without touching
// anything when the item is already first.
func (s *pgStore) MovePlaylistItemUp(playlistID, itemID int) (bool, error) {
	return s.moveItem(playlistID, itemID, func(p *model.Playlist) bool {
		return p.MoveItemUp(itemID)
	})
}

// MovePlaylistItemDown is the mirror of MovePlaylistItemUp.
func (s *pgStore) MovePlaylistItemDown(playlistID, itemID int) (bool, error) {
	return s.moveItem(playlistID, itemID, func(p *model.Playlist) bool {
		return p.MoveItemDown(itemID)
	})
}

func (s *pgStore) moveItem(playlistID, itemID int, move func(*model.Playlist) bool) (moved bool, err error) {
	items, err := s.GetPlaylistItems(playlistID)
	if err != nil {
		return false, err
	}
	p := model.Playlist{ID: playlistID, Items: items}
	if !move(&p) {
		return false, nil
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if err = writeItemPositions(tx, playlistID, p.Items); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Int("item_id", itemID).
			Msg("[db] moveItem: failed to persist positions")
		return false, err
	}
	return true, err
}

// writeItemPositions rewrites position for every item, sidestepping the
// unique constraint the same way ReorderPlaylistItems does.
func writeItemPositions(tx *sqlx.Tx, playlistID int, items []model.PlaylistItem) error {
	if _, err := tx.Exec(`
		UPDATE playlist_items
		   SET position = position + $1
		 WHERE playlist_id = $2;
	`, len(items), playlistID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(`
			UPDATE playlist_items
			   SET position = $1
			 WHERE id = $2
			   AND playlist_id = $3;
		`, it.Position, it.ID, playlistID); err != nil {
			return err
		}
	}
	return nil
}
