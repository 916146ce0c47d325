package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Argus-Signage/argus/internal/model"
)

func (s *pgStore) CreateSchedule(sch model.Schedule) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	INSERT INTO schedules (name, schedule_type, start_time, end_time, days_of_week, is_active, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, true, $6, now(), now())
	RETURNING id, name, schedule_type, start_time, end_time, days_of_week, is_active, created_by, created_at, updated_at;
	`
	if err := s.db.Get(&out, q, sch.Name, sch.ScheduleType, sch.StartTime, sch.EndTime, sch.DaysOfWeek, sch.CreatedBy); err != nil {
		log.Error().Err(err).Msg("[db] CreateSchedule failed")
		return model.Schedule{}, err
	}
	return out, nil
}

func (s *pgStore) GetSchedule(id int) (model.Schedule, error) {
	var out model.Schedule
	const q = `
	SELECT id, name, schedule_type, start_time, end_time, days_of_week, is_active, created_by, created_at, updated_at
	FROM schedules
	WHERE id = $1;
	`
	err := s.db.Get(&out, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Schedule{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("[db] GetSchedule failed")
	}
	return out, err
}

func (s *pgStore) ListSchedules(ownerID int) ([]model.Schedule, error) {
	var out []model.Schedule
	const q = `
	SELECT id, name, schedule_type, start_time, end_time, days_of_week, is_active, created_by, created_at, updated_at
	  FROM schedules
	 WHERE created_by = $1
	 ORDER BY id;
	`
	if err := s.db.Select(&out, q, ownerID); err != nil {
		log.Error().Err(err).Msg("[db] ListSchedules failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateSchedule(id int, name *string, startTime, endTime *time.Time, daysOfWeek *string, isActive *bool) error {
	_, err := s.db.Exec(`
		UPDATE schedules
		SET
		name         = COALESCE($2, name),
		start_time   = COALESCE($3, start_time),
		end_time     = COALESCE($4, end_time),
		days_of_week = COALESCE($5, days_of_week),
		is_active    = COALESCE($6, is_active),
		updated_at   = now()
		WHERE id = $1;`,
		id, name, startTime, endTime, daysOfWeek, isActive,
	)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("[db] UpdateSchedule failed")
	}
	return err
}

func (s *pgStore) DeleteSchedule(id int) error {
	_, err := s.db.Exec(`DELETE FROM schedules WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("[db] DeleteSchedule failed")
	}
	return err
}
