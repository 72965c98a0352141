package archiver

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"brs/internal/archiver/interfaces"
	"brs/internal/providers"
	"brs/internal/structures"
)

// Scheduler fires the archival sweep on a fixed interval. Runs are
// serialized by opsMu; a tick that arrives while a sweep is still going
// waits instead of starting a concurrent one.
type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	archiver ArchiverInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Archive.SweepInterval

	s.cron.AddFunc(gron.Every(interval), func() {
		if err := s.RunNow(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Archival sweep failed: %s", err)
		}
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Archival sweep scheduled every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunNow executes a single sweep immediately. A failed run is left for the
// next tick; the selection re-evaluates the cutoff fresh each time, so an
// aborted sweep loses nothing.
func (s *Scheduler) RunNow() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	_, err := s.archiver.Run(context.Background())
	return err
}

func NewScheduler(config *structures.Config, logger providers.Logger, archiver ArchiverInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		archiver: archiver,
	}
}
