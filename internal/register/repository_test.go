package register

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/models"
)

func entryAt(id, bikeID string, ts time.Time) models.Entry {
	return models.Entry{ID: id, ClientID: "c1", BikeID: bikeID, EntryTimestamp: ts}
}

func TestRepository_AddFindReplaceRemove(t *testing.T) {
	r := NewRepository(nil)
	ts := time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)

	r.Add(entryAt("e1", "b1", ts))
	r.Add(entryAt("e2", "b2", ts))
	require.Equal(t, 2, r.Len())

	got, err := r.FindByID("e2")
	require.NoError(t, err)
	assert.Equal(t, "b2", got.BikeID)

	got.Category = "GYM"
	require.NoError(t, r.Replace(got))

	again, err := r.FindByID("e2")
	require.NoError(t, err)
	assert.Equal(t, "GYM", again.Category)

	require.NoError(t, r.Remove("e1"))
	require.Equal(t, 1, r.Len())

	_, err = r.FindByID("e1")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, r.Replace(entryAt("e1", "b1", ts)), common.ErrNotFound)
	assert.ErrorIs(t, r.Remove("e1"), common.ErrNotFound)
}

func TestRepository_CopyOnWrite(t *testing.T) {
	r := NewRepository(nil)
	ts := time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)
	r.Add(entryAt("e1", "b1", ts))

	// A fetched entry is a copy; mutating it must not touch the stored one.
	e, err := r.FindByID("e1")
	require.NoError(t, err)
	e.Category = "changed"

	stored, err := r.FindByID("e1")
	require.NoError(t, err)
	assert.Empty(t, stored.Category)

	// Same for the list returned by GetAll.
	all := r.GetAll()
	all[0].BikeID = "other"
	stored, err = r.FindByID("e1")
	require.NoError(t, err)
	assert.Equal(t, "b1", stored.BikeID)
}

func TestRepository_PreservesInsertionOrder(t *testing.T) {
	ts := time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)
	r := NewRepository([]models.Entry{entryAt("a", "b1", ts)})
	r.Add(entryAt("b", "b2", ts))
	r.Add(entryAt("c", "b3", ts))

	got, err := r.FindByID("b")
	require.NoError(t, err)
	got.Category = "x"
	require.NoError(t, r.Replace(got))

	ids := []string{}
	for _, e := range r.GetAll() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRepository_HasOpenEntryForBike(t *testing.T) {
	ts := time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)
	r := NewRepository(nil)
	r.Add(entryAt("e1", "b1", ts))

	closed := entryAt("e2", "b2", ts)
	exit := ts.Add(time.Hour)
	closed.ExitTimestamp = &exit
	r.Add(closed)

	assert.True(t, r.HasOpenEntryForBike("b1"))
	assert.False(t, r.HasOpenEntryForBike("b2"))
	assert.False(t, r.HasOpenEntryForBike("b3"))
}
