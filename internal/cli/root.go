package cli

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TWRT/kanbanize-sync/internal/client/kanbanize"
	"github.com/TWRT/kanbanize-sync/internal/config"
	"github.com/TWRT/kanbanize-sync/internal/repository"
)

type options struct {
	configPath string
	ledgerPath string
	boardID    string
	verbose    bool
}

// NewRootCmd builds the kanbanize-sync command tree. The root command syncs
// the CSV files given as arguments.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "kanbanize-sync FILE...",
		Short: "Synchronize CSV task files with a Kanbanize board",
		Long: `kanbanize-sync reads each CSV file in order. Rows without a taskid are
created on the board and the new id is written back to the file; rows with a
taskid are edited and moved to their column.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.StringVar(&opts.ledgerPath, "ledger", "", "sqlite file recording sync history")
	flags.StringVarP(&opts.boardID, "board", "b", "", "board id used when a row has no boardid")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newDeleteCmd(opts),
		newHistoryCmd(opts),
	)
	return rootCmd
}

// app holds what a command needs once flags and config are resolved.
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func loadApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.ledgerPath != "" {
		cfg.LedgerPath = opts.ledgerPath
	}
	if opts.boardID != "" {
		cfg.BoardID = opts.boardID
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(lvl)
	return log, nil
}

func (a *app) client() (*kanbanize.KanbanizeClient, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return kanbanize.NewKanbanizeClient(a.cfg.APIKey,
		kanbanize.WithBaseURL(a.cfg.BaseURL),
		kanbanize.WithTimeout(a.cfg.Timeout.Duration),
		kanbanize.WithLogger(a.log),
	), nil
}

func (a *app) openLedger() (*sql.DB, *repository.Ledger, error) {
	if a.cfg.LedgerPath == "" {
		return nil, nil, nil
	}
	db, err := repository.InitDB(a.cfg.LedgerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}
	return db, repository.NewLedger(db), nil
}

func (a *app) requireBoard() (string, error) {
	if a.cfg.BoardID == "" {
		return "", fmt.Errorf("board id required: use --board or set board_id")
	}
	return a.cfg.BoardID, nil
}
