package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/model"
)

func (s *pgStore) CreateDisplay(name string, isPrimary bool, createdBy int) (model.Display, error) {
	var d model.Display
	const q = `
	INSERT INTO displays (name, is_primary, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id, name, is_primary, created_by, created_at, updated_at;
	`
	if err := s.db.Get(&d, q, name, isPrimary, createdBy); err != nil {
		log.Error().Err(err).Msg("[db] CreateDisplay: failed to insert display")
		return model.Display{}, err
	}
	return d, nil
}

func (s *pgStore) GetDisplayByID(id int) (model.Display, error) {
	var d model.Display
	const q = `
	SELECT id, name, is_primary, created_by, created_at, updated_at
	FROM displays
	WHERE id = $1;
	`
	err := s.db.Get(&d, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Display{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("display_id", id).Msg("[db] GetDisplayByID failed")
	}
	return d, err
}

func (s *pgStore) ListDisplays() ([]model.Display, error) {
	var out []model.Display
	const q = `
	SELECT id, name, is_primary, created_by, created_at, updated_at
	FROM displays
	ORDER BY id;
	`
	if err := s.db.Select(&out, q); err != nil {
		log.Error().Err(err).Msg("[db] ListDisplays failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateDisplay(id int, name *string, isPrimary *bool) error {
	_, err := s.db.Exec(`
		UPDATE displays
		SET
		name       = COALESCE($2, name),
		is_primary = COALESCE($3, is_primary),
		updated_at = now()
		WHERE id = $1;`,
		id, name, isPrimary,
	)
	if err != nil {
		log.Error().Err(err).Int("display_id", id).Msg("[db] UpdateDisplay failed")
	}
	return err
}

func (s *pgStore) DeleteDisplay(id int) error {
	_, err := s.db.Exec(`DELETE FROM displays WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("display_id", id).Msg("[db] DeleteDisplay failed")
	}
	return err
}
