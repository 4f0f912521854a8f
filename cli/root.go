package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/IWTDPLZZZ/Habit-Tracker/config"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions содержит глобальные флаги всех команд.
type RootOptions struct {
	ConfigPath string
	Driver     string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand создаёт корневую команду трекера привычек.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "habit-tracker",
		Short: "Habit tracker with points, levels, achievements and goals",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.Driver != "" {
				cfg.Storage.Driver = opts.Driver
			}
			opts.cfg = cfg
			opts.logger = utils.InitLogger(cfg.Log.File, cfg.Log.Mode)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "storage driver override (memory|sqlite|postgres|redis)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewHabitsCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewAchievementsCommand(opts))
	cmd.AddCommand(NewGoalsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
