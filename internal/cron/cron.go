package cron

import (
	"context"
	"log"
	"time"

	"github.com/mtolzdor/schedule-app/internal/repository"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled maintenance tasks
type Scheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(userRepo repository.UserRepository) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		userRepo: userRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Purge expired refresh tokens - Run every day at 3 AM
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupExpiredTokens()
	})

	// Update user status to away - Run every 30 minutes
	s.cron.AddFunc("*/30 * * * *", func() {
		log.Println("[Cron] Running user status update...")
		s.updateInactiveUserStatus()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) cleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.userRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ Refresh token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] 🧹 Deleted %d expired refresh tokens", deleted)
	}
}

func (s *Scheduler) updateInactiveUserStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.userRepo.UpdateStatusForInactive(ctx, 30*time.Minute); err != nil {
		log.Printf("[Cron] ❌ User status update failed: %v", err)
	}
}
