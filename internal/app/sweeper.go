package app

import (
	"context"
	"time"

	"github.com/vetdesk/vetdesk/internal/reminder"
	"github.com/vetdesk/vetdesk/internal/service"
	"go.uber.org/zap"
)

// SweepInterval is the cadence of the lifecycle and reminder passes.
const SweepInterval = 5 * time.Minute

// Sweeper drives the periodic background work: promoting past-due confirmed
// appointments to completed and sending upcoming-appointment reminders.
// Each pass is idempotent, so overlapping deploys or restarts are harmless.
type Sweeper struct {
	appointments *service.AppointmentService
	reminders    *reminder.Checker
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewSweeper(appointments *service.AppointmentService, reminders *reminder.Checker, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		appointments: appointments,
		reminders:    reminders,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the background loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting background sweeper")
	go s.run(ctx)
}

// Stop halts the background loop.
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping background sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First pass right away so a restart doesn't delay overdue transitions.
	s.pass(ctx)

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pass(ctx)
		case <-s.stopChan:
			s.logger.Info("Background sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Background sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) pass(ctx context.Context) {
	if _, err := s.appointments.SweepOnce(ctx); err != nil {
		s.logger.Error("Lifecycle sweep failed", zap.Error(err))
	}

	if s.reminders != nil {
		if _, err := s.reminders.Run(ctx); err != nil {
			s.logger.Error("Reminder pass failed", zap.Error(err))
		}
		s.reminders.Maintain(ctx)
	}
}
