package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogapi/app/fixtures"
	"blogapi/app/repositories"
	"blogapi/config"
	"blogapi/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is reported by the version command.
var Version = "1.0.0"

// ErrNotArchivable is returned by backup and restore for stores without snapshot support.
var ErrNotArchivable = errors.New("store does not support backup and restore")

// runtime carries what every subcommand needs once flags are parsed.
type runtime struct {
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

func (rt *runtime) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(rt.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt.cfg = cfg
	rt.log = logging.NewWithOutput(cfg.Logger, cmd.ErrOrStderr())
	return nil
}

func (rt *runtime) openStore(ctx context.Context) (repositories.Store, error) {
	store, err := repositories.Open(ctx, rt.cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func (rt *runtime) closeStore(store repositories.Store) {
	if err := store.Close(context.Background()); err != nil {
		rt.log.WithError(err).Error("failed to close store")
	}
}

// NewRootCommand builds the blogapi command tree.
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:               "blogapi",
		Short:             "Blog post API backed by a document store",
		SilenceUsage:      true,
		PersistentPreRunE: rt.load,
	}
	rootCmd.PersistentFlags().StringVarP(&rt.configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(
		newServeCommand(rt),
		newSeedCommand(rt),
		newCleanCommand(rt),
		newInitCommand(rt),
		newBackupCommand(rt),
		newRestoreCommand(rt),
		newVersionCommand(),
	)
	return rootCmd
}

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServer(cmd.Context(), rt.cfg, rt.log)
		},
	}
}

func newSeedCommand(rt *runtime) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert randomly generated posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				count = rt.cfg.Seed.Count
			}
			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			posts, err := fixtures.Seed(cmd.Context(), store, count, rt.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d posts\n", len(posts))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", fixtures.DefaultSeedCount, "number of posts to insert")
	return cmd
}

func newCleanCommand(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every post in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
				return nil
			}
			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			if err := fixtures.Wipe(cmd.Context(), store, rt.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newInitCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store if it does not exist and check it is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			if err := store.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("store is not reachable: %w", err)
			}
			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized successfully (%d posts)\n", n)
			return nil
		},
	}
}

func newBackupCommand(rt *runtime) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the store to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			archiver, ok := store.(repositories.Archiver)
			if !ok {
				return ErrNotArchivable
			}

			if out == "" {
				out = filepath.Join("data", "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer f.Close()

			if err := archiver.Backup(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "backup file (default data/backups/backup_<unix>.db)")
	return cmd
}

func newRestoreCommand(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the store contents with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile := args[0]
			fi, err := os.Stat(backupFile)
			if err != nil {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			archiver, ok := store.(repositories.Archiver)
			if !ok {
				return ErrNotArchivable
			}

			n, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			if n > 0 {
				if !yes && !confirm(cmd, "Existing database found. Do you want to replace it?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
				if err := store.DropAll(cmd.Context()); err != nil {
					return fmt.Errorf("failed to remove existing posts: %w", err)
				}
			}

			f, err := os.Open(backupFile)
			if err != nil {
				return fmt.Errorf("failed to open backup file: %w", err)
			}
			defer f.Close()

			if err := archiver.Restore(f); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace existing posts without asking")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogapi version %s\n", Version)
		},
	}
}

// confirm asks a yes/no question on the command's input and reports a "y" answer.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}
