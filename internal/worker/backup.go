package worker

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/store"
)

// BackupRunner snapshots the ticket store on a cron schedule.
type BackupRunner struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewBackupRunner(st *store.Store, schedule string, logger *zap.Logger) (*BackupRunner, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := st.BackupSnapshot(); err != nil {
			logger.Error("store backup failed", zap.Error(err))
			return
		}
		logger.Info("store backup written", zap.String("schedule", schedule))
	})
	if err != nil {
		return nil, err
	}
	return &BackupRunner{cron: c, logger: logger}, nil
}

func (b *BackupRunner) Start() {
	b.cron.Start()
	b.logger.Info("backup runner started")
}

func (b *BackupRunner) Stop() {
	<-b.cron.Stop().Done()
	b.logger.Info("backup runner stopped")
}
