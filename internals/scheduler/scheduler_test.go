package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls int
	err   error
}

func (s *countingSweeper) SweepStale(context.Context) (int, error) {
	s.calls++
	return 3, s.err
}

type fakeReaper struct {
	prefix    string
	threshold time.Time
	calls     int
}

func (r *fakeReaper) ReapOlderThan(_ context.Context, prefix string, threshold time.Time, _ bool) (int, error) {
	r.calls++
	r.prefix = prefix
	r.threshold = threshold
	return 0, nil
}

func TestNewRegistersBothJobs(t *testing.T) {
	c, err := New(&Jobs{Config: Config{SweepSchedule: "5 4 * * *", CleanupSchedule: "15 2 * * *"}})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(&Jobs{Config: Config{SweepSchedule: "tiap pagi", CleanupSchedule: "15 2 * * *"}})
	assert.ErrorContains(t, err, "jadwal sweep")
}

func TestSweepCallsSweeper(t *testing.T) {
	s := &countingSweeper{}
	j := &Jobs{Sweeper: s}
	j.Sweep(context.Background())
	s.err = errors.New("db down")
	j.Sweep(context.Background())
	assert.Equal(t, 2, s.calls)
}

func TestCleanupReaperRespectsRetention(t *testing.T) {
	now := time.Date(2025, 3, 10, 2, 15, 0, 0, time.UTC)
	r := &fakeReaper{}

	j := &Jobs{Reaper: r, Config: Config{EvidenceRetentionDays: 0}, Now: func() time.Time { return now }}
	j.Cleanup(context.Background())
	assert.Equal(t, 0, r.calls)

	j.Config.EvidenceRetentionDays = 90
	j.Cleanup(context.Background())
	require.Equal(t, 1, r.calls)
	assert.Equal(t, "attendance/", r.prefix)
	assert.Equal(t, now.AddDate(0, 0, -90), r.threshold)
}
