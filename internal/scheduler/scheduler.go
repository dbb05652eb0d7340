package scheduler

import (
	"context"
	"falci/internal/providers"
	"falci/internal/scheduler/interfaces"
	"falci/internal/services"
	"falci/internal/storage"
	"falci/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

const pingTimeout = 2 * time.Second

// Scheduler runs the background housekeeping: expired sessions are swept and
// the store is probed so an outage shows up in the log before a user hits it.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	registry services.SessionRegistryInterface
	store    storage.AdapterInterface
	cron     *gron.Cron
	opsMu    sync.Mutex

	storageDown atomic.Bool
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if interval := s.config.Scheduler.SweepInterval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), s.sweepSessions)
	}
	if interval := s.config.Scheduler.PingInterval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), s.checkStorage)
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) sweepSessions() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if removed := s.registry.Sweep(); removed > 0 {
		s.logger.Infof(providers.TypeApp, "Swept %d expired sessions", removed)
	}
}

func (s *Scheduler) checkStorage() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	err := s.store.Ping(ctx)
	switch {
	case err != nil && s.storageDown.CompareAndSwap(false, true):
		s.logger.Errorf(providers.TypeApp, "Storage unreachable: %s", err)
	case err == nil && s.storageDown.CompareAndSwap(true, false):
		s.logger.Infof(providers.TypeApp, "Storage reachable again")
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, registry services.SessionRegistryInterface, store storage.AdapterInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		registry: registry,
		store:    store,
	}
}
