// Package scheduler runs the periodic background jobs: purging expired otp
// challenges and sweeping stale drivers offline.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/roadwatch/accident-tracker-api/databases"
)

// StaleDriverAfter is how long a driver may go without a heartbeat before
// being flipped offline
const StaleDriverAfter = 30 * time.Minute

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron  *cron.Cron
	OtpDB databases.OtpDatabase
	DDB   databases.DriverDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(otpDB databases.OtpDatabase, dDB databases.DriverDatabase) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		OtpDB: otpDB,
		DDB:   dDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Purge expired otp challenges every hour
	_, err := s.cron.AddFunc("0 * * * *", s.purgeExpiredChallenges)
	if err != nil {
		zap.S().Errorw("failed to register otp purge job", "error", err)
	}

	// Sweep drivers with stale heartbeats offline every 5 minutes
	_, err = s.cron.AddFunc("*/5 * * * *", s.sweepStaleDrivers)
	if err != nil {
		zap.S().Errorw("failed to register stale driver sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("background scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("background scheduler stopped")
}

func (s *Scheduler) purgeExpiredChallenges() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.OtpDB.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": time.Now()}})
	if err != nil {
		zap.S().Errorw("failed to purge expired otp challenges", "error", err)
		return
	}
	if deleted > 0 {
		zap.S().Infow("purged expired otp challenges", "count", deleted)
	}
}

func (s *Scheduler) sweepStaleDrivers() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-StaleDriverAfter)
	res, err := s.DDB.UpdateMany(ctx,
		bson.M{"isOnline": true, "lastSeen": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"isOnline": false}},
	)
	if err != nil {
		zap.S().Errorw("failed to sweep stale drivers", "error", err)
		return
	}
	if res != nil && res.ModifiedCount > 0 {
		zap.S().Infow("swept stale drivers offline", "count", res.ModifiedCount)
	}
}
