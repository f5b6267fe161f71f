package portal

import (
	"log/slog"

	"github.com/spf13/cobra"

	applog "github.com/docportal/docportal/pkg/log"
	"github.com/docportal/docportal/pkg/session"
)

var keepLatest int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old session directories, keeping the newest N",
	RunE: func(cmd *cobra.Command, args []string) error {
		if keepLatest == 0 {
			keepLatest = cfg.Sessions.KeepLatest
		}
		logger := applog.New(slog.LevelInfo)
		manager := session.NewManager(applog.WithModule(logger, "session"))

		for _, base := range []string{cfg.Storage.UploadBase, cfg.Storage.IndexBase} {
			if err := manager.Prune(base, keepLatest); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVarP(&keepLatest, "keep", "k", 0, "sessions to keep per base directory")
}
