package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tifye/onduty/config"
	"github.com/tifye/onduty/content"
	"github.com/tifye/onduty/duty"
)

type commonOptions struct {
	configPath string
	seed1      uint64
	seed2      uint64
}

func newRootCommand(logger *log.Logger) *cobra.Command {
	v := viper.New()
	opts := &commonOptions{}

	cmd := &cobra.Command{
		Use:   "onduty [rooms-file]",
		Short: "Watch the cameras, spot what changed, report it before it piles up",
		Long: `onduty puts you on a night shift in front of the security cameras.
Rooms change while you watch. Report every anomaly before too many
are active at once and survive until the end of the shift.

The optional rooms file holds one room per line: name,item,item,...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set(config.KeyRoomsFile, args[0])
			}
			resolveSeeds(cmd, opts)
			return runPlay(cmd.Context(), logger, v, cmd, *opts)
		},
	}

	flags := cmd.Flags()
	flags.String("history", "", "DuckDB file to record finished shifts in")
	flags.Bool("no-clear", false, "Never clear the screen between turns")
	_ = v.BindPFlag(config.KeyHistoryPath, flags.Lookup("history"))
	_ = v.BindPFlag(config.KeyNoClear, flags.Lookup("no-clear"))
	addCommonFlags(cmd, v, opts)

	cmd.AddCommand(newSimulateCommand(logger))
	return cmd
}

// addCommonFlags registers the flags shared by every command. Flags
// that mirror config keys are bound to v and win over the config file.
func addCommonFlags(cmd *cobra.Command, v *viper.Viper, opts *commonOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (yaml, toml or json)")
	flags.String("rooms", "", "Rooms file, one room per line as name,item,item")
	flags.Bool("debug", false, "Include debug logs")
	flags.Uint64Var(&opts.seed1, "seed1", 0, "First seed value")
	flags.Uint64Var(&opts.seed2, "seed2", 0, "Second seed value")

	_ = v.BindPFlag(config.KeyRoomsFile, flags.Lookup("rooms"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
}

// resolveSeeds replaces seeds that were not given on the command line
// with random ones.
func resolveSeeds(cmd *cobra.Command, opts *commonOptions) {
	if !cmd.Flags().Changed("seed1") {
		opts.seed1 = rand.Uint64()
	}
	if !cmd.Flags().Changed("seed2") {
		opts.seed2 = rand.Uint64()
	}
}

func loadSettings(logger *log.Logger, v *viper.Viper, opts commonOptions) (duty.Settings, error) {
	settings, err := config.Load(v, opts.configPath)
	if err != nil {
		return duty.Settings{}, err
	}
	if settings.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return settings, nil
}

func loadRooms(path string) ([]content.RoomSpec, error) {
	if path == "" {
		return content.DefaultRooms(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open rooms file: %s", duty.ErrConfig, err)
	}
	defer f.Close()

	rooms, err := content.LoadRooms(f)
	if err != nil {
		return nil, fmt.Errorf("load rooms from %s: %w", path, err)
	}
	return rooms, nil
}

func Execute(ctx context.Context, logger *log.Logger) error {
	root := newRootCommand(logger)
	return root.ExecuteContext(ctx)
}
