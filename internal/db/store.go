// exposes a Store interface that is passed to API controllers and the
// playback engine; pgStore is the Postgres implementation.
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Argus-Signage/argus/internal/model"
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// display functions
	CreateDisplay(name string, isPrimary bool, createdBy int) (model.Display, error)
	GetDisplayByID(id int) (model.Display, error)
	ListDisplays() ([]model.Display, error)
	UpdateDisplay(id int, name *string, isPrimary *bool) error
	DeleteDisplay(id int) error

	// playlist functions
	CreatePlaylist(name, description string, createdBy int) (model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	ListPlaylists() ([]model.Playlist, error)
	UpdatePlaylist(id int, name, description *string) error
	DeletePlaylist(id int) error

	GetPlaylistItems(playlistID int) ([]model.PlaylistItem, error)
	AddPlaylistItem(playlistID int, name, itemType, source string, duration int, sizeBytes int64) (model.PlaylistItem, error)
	UpdatePlaylistItem(itemID int, name *string, duration *int) error
	RemovePlaylistItem(playlistID, itemID int) error
	ReorderPlaylistItems(playlistID int, itemIDs []int) error
	MovePlaylistItemUp(playlistID, itemID int) (bool, error)
	MovePlaylistItemDown(playlistID, itemID int) (bool, error)

	// assignment functions
	GetActiveAssignments(displayID int) ([]model.ContentAssignment, error)
	SaveAssignment(a model.ContentAssignment) (model.ContentAssignment, error)
	ClearAssignment(displayID int) error
	GetDisplaysUsingPlaylist(playlistID int) ([]model.Display, error)

	// schedule functions
	CreateSchedule(s model.Schedule) (model.Schedule, error)
	GetSchedule(id int) (model.Schedule, error)
	ListSchedules(ownerID int) ([]model.Schedule, error)
	UpdateSchedule(id int, name *string, startTime, endTime *time.Time, daysOfWeek *string, isActive *bool) error
	DeleteSchedule(id int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
