package scheduler

import (
	"errors"
	"sync"

	"github.com/roylee0704/gron"

	"guildstore/internal/document"
	"guildstore/internal/providers"
	"guildstore/internal/services"
	"guildstore/internal/structures"
)

type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.IntelServiceInterface
	backups *document.BackupManager
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if interval := s.config.Purge.Interval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			_, _ = s.Sweep()
		})
	}

	if s.config.Backup.Enabled && s.config.Backup.Interval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Backup.Interval), func() {
			_ = s.Backup()
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep purges stale intel of every guild with the configured max age.
func (s *Scheduler) Sweep() (int, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	removed, err := s.service.Sweep(s.config.Purge.MaxAge)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while purging stale intel: %s", err)
		return removed, err
	}
	s.logger.Debugf(providers.TypeApp, "Purge sweep removed %d records", removed)
	return removed, nil
}

// Backup writes a compressed snapshot to the configured backup file. It is a
// no-op when backups are disabled or there is no document to snapshot.
func (s *Scheduler) Backup() error {
	if !s.config.Backup.Enabled || s.backups == nil {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.backups.Save(s.config.Backup.FilePath)
	if errors.Is(err, document.ErrNothingToBackup) {
		s.logger.Warnf(providers.TypeApp, "Backup skipped: repository is disabled")
		return nil
	}
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing backup: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Backup written to %s", s.config.Backup.FilePath)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.IntelServiceInterface, backups *document.BackupManager) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		backups: backups,
	}
}
