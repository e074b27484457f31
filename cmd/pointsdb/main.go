package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kushpatel225/pointsdb/database"
	"github.com/kushpatel225/pointsdb/internal/command"
	"github.com/kushpatel225/pointsdb/skiplist"
)

func main() {
	var (
		logLevel string
		seed     uint64
	)
	cmd := &cobra.Command{
		Use:   "pointsdb <command-file>",
		Short: "Run a command file against a quadtree and skip list point database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("there is no such input file as |%s|: %w", args[0], err)
			}
			defer f.Close()

			db := database.New(
				database.WithLogger(log),
				database.WithCoin(skiplist.NewRandCoin(seed)),
			)
			if err := command.NewProcessor(db, cmd.OutOrStdout(), log).Run(f); err != nil {
				return err
			}
			s := db.Stats()
			log.Debug().Int("nodes", s.Nodes).Int("leaves", s.Leaves).Int("height", s.Height).Msg("quadtree shape")
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for skip list level generation")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
