package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costume-rental-backend/internal/config"
	"costume-rental-backend/internal/jobs"
)

func TestNewScheduler_RegistersConfiguredJobs(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendOverdueReminders: "0 0 9 * * *",
		SendPendingDigest:    "0 0 8 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(nil, nil, cfg))
	assert.Len(t, s.cron.Entries(), 2)
	assert.True(t, s.IsRunning())
}

func TestNewScheduler_SkipsInvalidSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendOverdueReminders: "every morning",
		SendPendingDigest:    "0 0 8 * * *",
	}}
	s := NewScheduler(jobs.NewJobRunner(nil, nil, cfg))
	assert.Len(t, s.cron.Entries(), 1)
}
