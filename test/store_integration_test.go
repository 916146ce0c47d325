package test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Argus-Signage/argus/internal/db"
	"github.com/Argus-Signage/argus/internal/model"
	"github.com/Argus-Signage/argus/internal/playback"
)

// setupStore connects to the database named by TEST_DATABASE_URL and runs the
// migrations. Skipped when no test database is configured.
func setupStore(t *testing.T) db.Store {
	t.Helper()
	if err := db.InitTestDB("../migrations"); err != nil {
		t.Skipf("test database not available: %v", err)
	}
	return db.TestStore
}

func testUser(t *testing.T, store db.Store, prefix string) int {
	t.Helper()
	email := fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
	userID, err := store.CreateUser(email, "hashedpassword", nil)
	require.NoError(t, err)
	return userID
}

func TestAssignmentSupersedeIsAtomic(t *testing.T) {
	store := setupStore(t)
	userID := testUser(t, store, "assign")

	display, err := store.CreateDisplay("integration display", false, userID)
	require.NoError(t, err)

	first, err := store.SaveAssignment(model.ContentAssignment{
		DisplayID:    display.ID,
		ContentMode:  model.ModeSimple,
		ContentType:  model.ItemTypeImage,
		ContentValue: "http://cdn/a.png",
		IsActive:     true,
	})
	require.NoError(t, err)

	second, err := store.SaveAssignment(model.ContentAssignment{
		DisplayID:    display.ID,
		ContentMode:  model.ModeSimple,
		ContentType:  model.ItemTypeImage,
		ContentValue: "http://cdn/b.png",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// exactly one active row survives the write
	active, err := store.GetActiveAssignments(display.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	// the resolver answers with the new assignment, never the superseded one
	rc, err := playback.NewResolver(store).Resolve(display.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/b.png", rc.Assignment.ContentValue)

	// clearing leaves the display idle
	require.NoError(t, store.ClearAssignment(display.ID))
	_, err = playback.NewResolver(store).Resolve(display.ID, time.Now())
	assert.True(t, errors.Is(err, playback.ErrNoAssignment))
}

func TestPlaylistItemOrderingStaysDense(t *testing.T) {
	store := setupStore(t)
	userID := testUser(t, store, "reorder")

	pl, err := store.CreatePlaylist("integration reorder", "", userID)
	require.NoError(t, err)

	var items []model.PlaylistItem
	for i, name := range []string{"a", "b", "c"} {
		it, err := store.AddPlaylistItem(pl.ID, name, model.ItemTypeImage, fmt.Sprintf("http://cdn/%s.png", name), 5+i, 0)
		require.NoError(t, err)
		items = append(items, it)
	}

	assertDense := func(want []int) {
		t.Helper()
		got, err := store.GetPlaylistItems(pl.ID)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i, it := range got {
			assert.Equal(t, i+1, it.Position, "position at index %d", i)
			assert.Equal(t, want[i], it.ID, "item at index %d", i)
		}
	}

	assertDense([]int{items[0].ID, items[1].ID, items[2].ID})

	// moving the first item up is a boundary no-op
	moved, err := store.MovePlaylistItemUp(pl.ID, items[0].ID)
	require.NoError(t, err)
	assert.False(t, moved)
	assertDense([]int{items[0].ID, items[1].ID, items[2].ID})

	moved, err = store.MovePlaylistItemUp(pl.ID, items[2].ID)
	require.NoError(t, err)
	assert.True(t, moved)
	assertDense([]int{items[0].ID, items[2].ID, items[1].ID})

	moved, err = store.MovePlaylistItemDown(pl.ID, items[0].ID)
	require.NoError(t, err)
	assert.True(t, moved)
	assertDense([]int{items[2].ID, items[0].ID, items[1].ID})

	// a full reorder rewrites positions 1..N in the requested order
	require.NoError(t, store.ReorderPlaylistItems(pl.ID, []int{items[1].ID, items[0].ID, items[2].ID}))
	assertDense([]int{items[1].ID, items[0].ID, items[2].ID})

	// removing the middle item closes the gap
	require.NoError(t, store.RemovePlaylistItem(pl.ID, items[0].ID))
	assertDense([]int{items[1].ID, items[2].ID})
}
