package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aristath/stockwise/internal/database"
	testingpkg "github.com/aristath/stockwise/internal/testing"
)

func TestCheckWALCheckpointsJob_Run(t *testing.T) {
	portfolioDB, cleanupPortfolio := testingpkg.NewTestDB(t, "portfolio")
	defer cleanupPortfolio()
	cacheDB, cleanupCache := testingpkg.NewTestDB(t, "cache")
	defer cleanupCache()

	job := NewCheckWALCheckpointsJob(map[string]*database.DB{
		"portfolio": portfolioDB,
		"cache":     cacheDB,
		"missing":   nil,
	}, zerolog.Nop())

	assert.Equal(t, "check_wal_checkpoints", job.Name())
	assert.NoError(t, job.Run())
}

func TestCheckWALCheckpointsJob_AllFailed(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "portfolio")
	cleanup()

	job := NewCheckWALCheckpointsJob(map[string]*database.DB{"portfolio": db}, zerolog.Nop())
	assert.Error(t, job.Run())
}

func TestCheckWALCheckpointsJob_Empty(t *testing.T) {
	job := NewCheckWALCheckpointsJob(nil, zerolog.Nop())
	assert.NoError(t, job.Run())
}
