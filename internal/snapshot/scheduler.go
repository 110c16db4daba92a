package snapshot

import (
	"context"
	"emd/internal/providers"
	"emd/internal/services"
	"emd/internal/snapshot/interfaces"
	"emd/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

// Scheduler drives the periodic jobs: persisting the last good snapshot
// and, when enabled, auto-refreshing the dashboard through the same path a
// user-triggered refresh takes.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	query       services.QueryServiceInterface
	accounts    services.AccountServiceInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted snapshot to file %s", s.config.Persistence.FilePath)
	})

	if s.config.Refresh.Auto && s.config.Refresh.Interval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Refresh.Interval), func() {
			s.logger.Infof(providers.TypeApp, "Auto refresh...")
			s.query.Refresh(context.Background(), s.accounts.Selected())
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, query services.QueryServiceInterface, accounts services.AccountServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		query:       query,
		accounts:    accounts,
		fileManager: fileManager,
	}
}
