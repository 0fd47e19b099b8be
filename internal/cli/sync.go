package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TWRT/kanbanize-sync/internal/service"
)

func runSync(cmd *cobra.Command, opts *options, paths []string) error {
	a, err := loadApp(cmd, opts)
	if err != nil {
		return err
	}
	c, err := a.client()
	if err != nil {
		return err
	}

	var ledger service.Ledger
	db, l, err := a.openLedger()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		ledger = l
	}

	svc := service.NewSyncService(c, ledger, a.log, a.cfg.BoardID)
	summaries, err := svc.SyncFiles(cmd.Context(), paths)
	for _, s := range summaries {
		a.log.WithFields(logrus.Fields{
			"file":      s.Path,
			"rows":      s.Rows,
			"created":   s.Created,
			"edited":    s.Edited,
			"moved":     s.Moved,
			"rewritten": s.Rewritten,
		}).Debug("sync summary")
	}
	return err
}
