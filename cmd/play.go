package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tifye/onduty/config"
	"github.com/tifye/onduty/console"
	"github.com/tifye/onduty/content"
	"github.com/tifye/onduty/duty"
	"github.com/tifye/onduty/history"
	"github.com/tifye/onduty/notify"
	"github.com/tifye/onduty/storage"
)

const leaderboardSize = 5

type playDependencies struct {
	store   *history.Store
	webhook *notify.Webhook
}

func runPlay(ctx context.Context, logger *log.Logger, v *viper.Viper, cmd *cobra.Command, opts commonOptions) error {
	settings, err := loadSettings(logger, v, opts)
	if err != nil {
		return err
	}

	rooms, err := loadRooms(v.GetString(config.KeyRoomsFile))
	if err != nil {
		return err
	}

	deps, cfs, err := initDependencies(logger, v)
	if err != nil {
		return fmt.Errorf("init deps: %w", err)
	}
	defer func() {
		if err := cfs.Cleanup(); err != nil {
			logger.Error("cleanup funcs", "err", err)
		}
	}()

	rnd := rand.New(rand.NewPCG(opts.seed1, opts.seed2))
	logger.Debug("seeded shift", "seed1", opts.seed1, "seed2", opts.seed2)

	gen := content.NewGenerator(logger.WithPrefix("content"), rnd)
	catalog, err := duty.NewCatalog(gen.Kinds()...)
	if err != nil {
		return err
	}
	reg, err := content.Registry(rooms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	game, err := duty.NewGame(logger.WithPrefix("duty"), settings, reg, catalog, duty.Options{
		Rand: rnd,
		Wait: console.ProgressWait(out, time.Second),
	})
	if err != nil {
		return err
	}

	startedAt := time.Now()
	c := console.New(
		logger.WithPrefix("console"),
		game,
		gen,
		cmd.InOrStdin(),
		out,
		console.WithClearScreen(!v.GetBool(config.KeyNoClear)),
	)
	summary, err := c.Run(ctx)
	if err != nil {
		return err
	}

	// The shift is over even if it ended on an interrupt, so record it
	// regardless of ctx.
	afterCtx := context.WithoutCancel(ctx)
	seeds := fmt.Sprintf("%d/%d", opts.seed1, opts.seed2)
	if deps.store != nil {
		record := history.NewRecord(summary, startedAt, time.Now(), seeds)
		if err := recordShift(afterCtx, deps.store, out, record); err != nil {
			logger.Warn("record shift", "err", err)
		}
	}
	if deps.webhook != nil {
		if err := deps.webhook.Notify(afterCtx, summary); err != nil {
			logger.Warn("notify shift end", "err", err)
		}
	}

	return nil
}

func initDependencies(logger *log.Logger, v *viper.Viper) (deps playDependencies, cfs CleanupFuncs, err error) {
	defer func() {
		if err == nil {
			return
		}

		if ferr := cfs.Cleanup(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	if path := v.GetString(config.KeyHistoryPath); path != "" {
		db, err := storage.InitDuckDB(path)
		if err != nil {
			return deps, cfs, fmt.Errorf("init duckdb: %s", err)
		}
		cfs.Defer(func() error {
			if err := db.Close(); err != nil {
				return fmt.Errorf("close duckdb: %s", err)
			}
			return nil
		})
		deps.store = history.NewStore(logger.WithPrefix("history"), db)
	}

	if url := v.GetString(config.KeyDiscordWebhook); url != "" {
		webhook, err := notify.NewWebhook(logger.WithPrefix("notify"), url)
		if err != nil {
			return deps, cfs, fmt.Errorf("new webhook: %w", err)
		}
		deps.webhook = webhook
	}

	return deps, cfs, nil
}

func recordShift(ctx context.Context, store *history.Store, w io.Writer, record history.Record) error {
	if err := store.Insert(ctx, record); err != nil {
		return err
	}

	best, err := store.Best(ctx, leaderboardSize)
	if err != nil {
		return err
	}
	printLeaderboard(w, best, record.ID)
	return nil
}

func printLeaderboard(w io.Writer, records []history.Record, current string) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintln(w, "BEST SHIFTS")
	for i, r := range records {
		marker := " "
		if r.ID == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. FOUND %-3d MISSED %-3d %-8s %s\n",
			marker, i+1, r.Found, r.Missed, r.Outcome, r.EndedAt.Local().Format(time.DateTime))
	}
}
