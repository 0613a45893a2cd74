package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aristath/stockwise/internal/database"
	testingpkg "github.com/aristath/stockwise/internal/testing"
)

func TestCheckDatabasesJob_Run(t *testing.T) {
	portfolioDB, cleanupPortfolio := testingpkg.NewTestDB(t, "portfolio")
	defer cleanupPortfolio()
	cacheDB, cleanupCache := testingpkg.NewTestDB(t, "cache")
	defer cleanupCache()

	job := NewCheckDatabasesJob(map[string]*database.DB{
		"portfolio": portfolioDB,
		"cache":     cacheDB,
		"missing":   nil,
	}, zerolog.Nop())

	assert.Equal(t, "check_databases", job.Name())
	assert.NoError(t, job.Run())
}

func TestCheckDatabasesJob_ClosedDatabase(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "cache")
	cleanup()

	job := NewCheckDatabasesJob(map[string]*database.DB{"cache": db}, zerolog.Nop())
	assert.ErrorContains(t, job.Run(), "database cache")
}
