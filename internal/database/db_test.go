package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingwatch/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitSchema())
	return db
}

func okResult(target string, at time.Time, avg float64) models.ProbeResult {
	r := models.OK(target, 0, models.RoundTrip{Min: avg - 1, Avg: avg, Max: avg + 1, StdDev: 0.5})
	r.RunID = target + at.String()
	r.StartedAt = at
	r.FinishedAt = at.Add(10 * time.Second)
	return r
}

func failedResult(target string, at time.Time) models.ProbeResult {
	r := models.Failed(target, models.ReasonUnknownHost, "Unknown host")
	r.RunID = target + at.String()
	r.StartedAt = at
	r.FinishedAt = at.Add(time.Second)
	return r
}

func save(t *testing.T, db *DB, results ...models.ProbeResult) {
	t.Helper()
	for _, r := range results {
		require.NoError(t, db.SaveResult(context.Background(), r))
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.InitSchema())
}

func TestSaveAndGetRecent(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	save(t, db,
		okResult("8.8.8.8", now.Add(-2*time.Minute), 20),
		failedResult("voila.fr", now.Add(-time.Minute)),
		okResult("8.8.8.8", now.Add(-48*time.Hour), 30),
	)

	results, err := db.GetRecent(24)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "voila.fr", results[0].Target)
	assert.Equal(t, models.StatusError, results[0].Status)
	assert.Equal(t, models.ReasonUnknownHost, results[0].Reason)
	assert.Equal(t, "Unknown host", results[0].Message)
	assert.Zero(t, results[0].RoundTrip)

	assert.Equal(t, "8.8.8.8", results[1].Target)
	assert.Equal(t, models.RoundTrip{Min: 19, Avg: 20, Max: 21, StdDev: 0.5}, results[1].RoundTrip)
	assert.Equal(t, now.Add(-2*time.Minute).UnixNano(), results[1].StartedAt.UnixNano())
}

func TestGetLatest(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	save(t, db,
		okResult("a", now.Add(-3*time.Minute), 10),
		okResult("b", now.Add(-2*time.Minute), 20),
		failedResult("a", now.Add(-time.Minute)),
	)

	latest, err := db.GetLatest()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "a", latest[0].Target)
	assert.Equal(t, models.StatusError, latest[0].Status)
	assert.Equal(t, "b", latest[1].Target)
	assert.Equal(t, models.StatusOK, latest[1].Status)
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	save(t, db,
		okResult("a", now.Add(-3*time.Minute), 10),
		okResult("a", now.Add(-2*time.Minute), 20),
		failedResult("a", now.Add(-time.Minute)),
	)

	stats, err := db.GetStats(24)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	s := stats[0]
	assert.Equal(t, "a", s.Target)
	assert.Equal(t, 3, s.TotalRuns)
	assert.Equal(t, 1, s.FailedRuns)
	assert.InDelta(t, 15, s.AvgRTT, 1e-9)
	assert.InDelta(t, 21, s.MaxRTT, 1e-9)
	assert.InDelta(t, 9, s.MinRTT, 1e-9)
	assert.Equal(t, "Unknown host", s.LastMessage)
}

func TestGetOutages(t *testing.T) {
	db := newTestDB(t)
	base := time.Now().Add(-time.Hour)

	var results []models.ProbeResult
	for i := 0; i < 10; i++ {
		at := base.Add(time.Duration(i) * 10 * time.Second)
		if i >= 3 && i <= 6 {
			results = append(results, failedResult("a", at))
		} else {
			results = append(results, okResult("a", at, 10))
		}
	}

	// Two failures in a row are not an outage
	results = append(results,
		failedResult("b", base),
		failedResult("b", base.Add(10*time.Second)),
		okResult("b", base.Add(20*time.Second), 10),
	)
	save(t, db, results...)

	outages, err := db.GetOutages(7)
	require.NoError(t, err)
	require.Len(t, outages, 1)

	o := outages[0]
	assert.Equal(t, "a", o.Target)
	assert.Equal(t, 4, o.FailedRuns)
	assert.Equal(t, base.Add(30*time.Second).UnixNano(), o.StartTime.UnixNano())
	assert.Equal(t, "30s", o.Duration)
}

func TestGetOutagesCountsTotalLoss(t *testing.T) {
	db := newTestDB(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		r := okResult("a", base.Add(time.Duration(i)*time.Minute), 10)
		r.LossPercent = 100
		save(t, db, r)
	}

	outages, err := db.GetOutages(1)
	require.NoError(t, err)
	require.Len(t, outages, 1)
	assert.Equal(t, 3, outages[0].FailedRuns)
}

func TestArchiveOldData(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	save(t, db,
		okResult("a", now.Add(-8*24*time.Hour), 10),
		okResult("a", now.Add(-8*24*time.Hour+time.Minute), 20),
		okResult("a", now.Add(-time.Hour), 30),
	)

	require.NoError(t, db.ArchiveOldData())

	// The archived runs are still visible through the hourly rollup
	points, err := db.GetHeatmapData(30)
	require.NoError(t, err)
	total := 0
	for _, p := range points {
		total += p.TotalRuns
	}
	assert.Equal(t, 3, total)

	results, err := db.GetRecent(24 * 30)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 30.0, results[0].RoundTrip.Avg)
}

func TestGetHeatmapData(t *testing.T) {
	db := newTestDB(t)
	recent := time.Now().Add(-2 * time.Hour).Truncate(time.Hour).Add(5 * time.Minute)
	old := recent.Add(-8*24*time.Hour + 3*time.Hour)

	save(t, db,
		okResult("a", recent, 10),
		failedResult("a", recent.Add(10*time.Minute)),
		okResult("a", old, 30),
	)
	require.NoError(t, db.ArchiveOldData())

	points, err := db.GetHeatmapData(30)
	require.NoError(t, err)
	require.Len(t, points, 2)

	byHour := make(map[int]models.HeatmapPoint)
	for _, p := range points {
		byHour[p.Hour] = p
	}

	h := byHour[recent.UTC().Hour()]
	assert.Equal(t, "a", h.Target)
	assert.Equal(t, 2, h.TotalRuns)
	assert.Equal(t, 1, h.FailedRuns)
	assert.InDelta(t, 50, h.FailureRate, 1e-9)
	assert.InDelta(t, 10, h.AvgLatency, 1e-9)
	assert.InDelta(t, 11, h.MaxLatency, 1e-9)
	assert.Equal(t, 1, h.DaysWithData)

	h = byHour[old.UTC().Hour()]
	assert.Equal(t, 1, h.TotalRuns)
	assert.Zero(t, h.FailureRate)
	assert.InDelta(t, 30, h.AvgLatency, 1e-9)

	points, err = db.GetHeatmapData(1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, recent.UTC().Hour(), points[0].Hour)
}

func TestGetPatterns(t *testing.T) {
	db := newTestDB(t)
	recent := time.Now().Add(-2 * time.Hour).Truncate(time.Hour).Add(5 * time.Minute)
	old := recent.Add(-8 * 24 * time.Hour)

	save(t, db,
		okResult("a", recent, 10),
		failedResult("a", recent.Add(10*time.Minute)),
		okResult("a", old, 30),
	)
	require.NoError(t, db.ArchiveOldData())

	patterns, err := db.GetPatterns(recent.UTC().Hour())
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	assert.Equal(t, recent.UTC().Format("2006-01-02"), patterns[0].Date)
	assert.Equal(t, 2, patterns[0].TotalRuns)
	assert.Equal(t, 1, patterns[0].FailedRuns)
	assert.InDelta(t, 50, patterns[0].FailureRate, 1e-9)
	assert.InDelta(t, 10, patterns[0].AvgRTT, 1e-9)

	assert.Equal(t, old.UTC().Format("2006-01-02"), patterns[1].Date)
	assert.Equal(t, 1, patterns[1].TotalRuns)
	assert.InDelta(t, 31, patterns[1].MaxRTT, 1e-9)

	_, err = db.GetPatterns(24)
	assert.Error(t, err)
}
