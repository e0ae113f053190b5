package data

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = c.now
	t.Cleanup(s.Close)
	return s, c
}

func TestStorePutGet(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ds := roundTripDataset()

	snap := s.Put(ds)
	_, err := uuid.Parse(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Version)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Same(t, ds, got.Dataset)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get("missing")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStoreUpdateKeepsOldSnapshot(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	first := s.Put(roundTripDataset())

	row := model.CustomerRow{Customer: "Selfridges", Country: "United Kingdom", CountryGroup: "UK", Values: model.Series{1, 2, 3}}
	next, err := s.Update(first.ID, func(ds *model.Dataset) (*model.Dataset, error) {
		return ds.WithCustomer(row)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, first.ID, next.ID)
	assert.Len(t, next.Dataset.B2B.Rows, 3)
	assert.Len(t, first.Dataset.B2B.Rows, 2)

	current, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version)
}

func TestStoreUpdateErrors(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	snap := s.Put(roundTripDataset())

	boom := errors.New("boom")
	_, err := s.Update(snap.ID, func(*model.Dataset) (*model.Dataset, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	// the result must still line up with the horizon
	_, err = s.Update(snap.ID, func(ds *model.Dataset) (*model.Dataset, error) {
		ds.Overheads[0].Values = model.Series{1}
		return ds, nil
	})
	require.ErrorIs(t, err, model.ErrSeriesLength)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)

	_, err = s.Update("missing", func(ds *model.Dataset) (*model.Dataset, error) { return ds, nil })
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStoreExpiry(t *testing.T) {
	s, c := newTestStore(t, time.Hour)
	snap := s.Put(roundTripDataset())

	// reads extend the lifetime
	c.t = c.t.Add(50 * time.Minute)
	_, err := s.Get(snap.ID)
	require.NoError(t, err)
	c.t = c.t.Add(50 * time.Minute)
	_, err = s.Get(snap.ID)
	require.NoError(t, err)

	c.t = c.t.Add(61 * time.Minute)
	_, err = s.Get(snap.ID)
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.Equal(t, 1, s.Len())

	s.sweep()
	assert.Equal(t, 0, s.Len())
}

func TestStoreDefaultTTL(t *testing.T) {
	s := NewStore(0)
	defer s.Close()
	assert.Equal(t, DefaultSnapshotTTL, s.ttl)

	s.Delete("missing")
	s.Close()
}
