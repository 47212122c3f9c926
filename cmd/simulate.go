package cmd

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tifye/onduty/config"
	"github.com/tifye/onduty/simulator"
)

type simulateOptions struct {
	commonOptions
	times   uint
	endless bool
	turns   int
}

func newSimulateCommand(logger *log.Logger) *cobra.Command {
	v := viper.New()
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play seeded shifts headless and check the game's invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), logger, v, cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.UintVar(&opts.times, "times", 0, "Amount of times to run the simulation each time with random seeds")
	flags.BoolVar(&opts.endless, "endless", false, "Run the simulation an endless amount of times with random seeds until stopped")
	flags.IntVar(&opts.turns, "turns", 0, "Turn limit per simulation, 0 keeps the default")
	addCommonFlags(cmd, v, &opts.commonOptions)

	return cmd
}

func runSimulate(ctx context.Context, logger *log.Logger, v *viper.Viper, cmd *cobra.Command, opts *simulateOptions) error {
	logger = logger.WithPrefix("simulator")
	settings, err := loadSettings(logger, v, opts.commonOptions)
	if err != nil {
		return err
	}
	rooms, err := loadRooms(v.GetString(config.KeyRoomsFile))
	if err != nil {
		return err
	}

	simConfig := simulator.V1Config()
	simConfig.Settings = settings
	simConfig.Rooms = rooms
	if opts.turns > 0 {
		simConfig.MaxTurns = opts.turns
	}

	switch {
	case opts.endless:
		return runEndless(ctx, logger, simConfig)
	case opts.times > 0:
		return runTimes(ctx, logger, simConfig, opts.times)
	default:
		resolveSeeds(cmd, &opts.commonOptions)
		return runSeeded(ctx, logger, simConfig, opts.seed1, opts.seed2)
	}
}

func runTimes(ctx context.Context, logger *log.Logger, config simulator.Config, times uint) error {
	for range times {
		if err := runSeeded(ctx, logger, config, rand.Uint64(), rand.Uint64()); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			logger.Error(err)
			return nil
		}
	}
	return nil
}

func runEndless(ctx context.Context, logger *log.Logger, config simulator.Config) error {
	for {
		if err := runSeeded(ctx, logger, config, rand.Uint64(), rand.Uint64()); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			logger.Error(err)
			return nil
		}
	}
}

func runSeeded(ctx context.Context, logger *log.Logger, config simulator.Config, seed1, seed2 uint64) error {
	sim, err := simulator.NewSimulator(logger, seed1, seed2, config)
	if err != nil {
		return err
	}

	summary, err := sim.Run(ctx)
	if err != nil {
		logger.Error("simulation failed", "seed1", seed1, "seed2", seed2)
		return err
	}
	logger.Info("shift over",
		"outcome", summary.Phase,
		"time", summary.Clock,
		"found", summary.Found,
		"total", summary.Total,
	)
	return nil
}
