package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/goburrow/modbus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/kba-poller/internal/config"
	"github.com/tamzrod/kba-poller/internal/poller"
	"github.com/tamzrod/kba-poller/internal/status"
	"github.com/tamzrod/kba-poller/internal/tags"
	"github.com/tamzrod/kba-poller/internal/writer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start polling every configured line",
	Long: `Start one polling loop per configured laser line.

Lines whose device configuration cannot be loaded are reported once and
stay down until the daemon is restarted. The daemon exits when no line
could be started.

The daemon runs until interrupted (Ctrl+C) or receives SIGTERM.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	runCmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = runCmd.MarkFlagRequired("config")
}

// newLogger creates a JSON logger for daemon use.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func runRun(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	logger.Info("config loaded", "lines", len(cfg.Poller.Lines), "config_dir", cfg.Poller.ConfigDir)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runLines(ctx, cfg, logger)
}

// runLines builds and starts every line and blocks until ctx is cancelled.
func runLines(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var wg sync.WaitGroup
	started := 0

	for _, lc := range cfg.Poller.Lines {
		log := logger.With("line", lc.ID)

		// ---- engine ----
		line, err := poller.Build(lc, cfg.DevicePath(lc), logger)
		if err != nil {
			return fmt.Errorf("poller build failed (line=%s): %w", lc.ID, err)
		}

		// ---- publisher (optional per line) ----
		var bw writer.BlockWriter
		if lc.Publish != nil {
			w, err := writer.Build(lc)
			if err != nil {
				return fmt.Errorf("writer build failed (line=%s): %w", lc.ID, err)
			}
			defer w.Close()
			bw = w
		}

		// ---- connection-line start ----
		if err := line.Start(); err != nil {
			// reported once; the line stays down until restart
			log.Error("line start failed", "error", err)
			publishFatal(bw, line.Tags.Snapshot(), err, log)
			continue
		}
		defer line.Close()
		started++

		out := make(chan poller.SessionResult)

		wg.Add(2)
		go func() {
			defer wg.Done()
			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()
			orchestrate(ctx, out, secTicker.C, bw, log)
		}()
		go func() {
			defer wg.Done()
			line.Run(ctx, out)
		}()
	}

	if started == 0 {
		return errors.New("no line could be started")
	}

	logger.Info("polling", "lines", started)
	wg.Wait()
	logger.Info("stopped")
	return nil
}

// publishFatal writes the block of a line that could not start.
// The line stays down, so this is its only write.
func publishFatal(bw writer.BlockWriter, vals []tags.Value, err error, log *slog.Logger) {
	if bw == nil {
		return
	}
	snap := status.Snapshot{Health: status.HealthFatal, LastErrorCode: errorCode(err)}
	if werr := bw.WriteBlock(snap, vals); werr != nil {
		log.Warn("status write failed", "error", werr)
	}
}

// orchestrate owns the line health snapshot and delivers every session.
// Each value on tick counts one second in error while the line is not OK.
func orchestrate(ctx context.Context, in <-chan poller.SessionResult, tick <-chan time.Time, bw writer.BlockWriter, log *slog.Logger) {
	var snap status.Snapshot
	snap.Health = status.HealthUnknown

	var last poller.SessionResult

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			last = res
			snap.Sessions = res.Stats.Sessions

			if res.Err == nil {
				snap.Health = status.HealthOK
				snap.LastErrorCode = 0
				snap.SecondsInError = 0
			} else {
				// transient: the next session retries on its own
				log.Debug("session failed", "error", res.Err, "sessions", res.Stats.Sessions)
				snap.Health = status.HealthError
				snap.LastErrorCode = errorCode(res.Err)
			}

			if bw == nil {
				continue
			}
			if err := bw.WriteBlock(snap, res.Tags); err != nil {
				log.Warn("block write failed", "error", err)
			}

		case <-tick:
			if bw == nil || snap.Health == status.HealthOK {
				continue
			}
			if snap.SecondsInError < status.MaxSecondsInError {
				snap.SecondsInError++
				if err := bw.WriteBlock(snap, last.Tags); err != nil {
					log.Warn("status seconds tick write failed", "error", err)
				}
			}
		}
	}
}

// Error codes published in the line header.
const (
	errCodeGeneric  uint16 = 1
	errCodeTimeout  uint16 = 2
	errCodeRefused  uint16 = 3
	errCodeFatal    uint16 = 4
	errCodeNoActive uint16 = 5

	// errCodeModbusBase is OR-ed with the Modbus exception code.
	errCodeModbusBase uint16 = 0x0100
)

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return errCodeModbusBase | uint16(me.ExceptionCode)
	}

	switch {
	case errors.Is(err, poller.ErrConfigFatal):
		return errCodeFatal
	case errors.Is(err, poller.ErrNotActive):
		return errCodeNoActive
	case errors.Is(err, syscall.ECONNREFUSED):
		return errCodeRefused
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errCodeTimeout
	}

	return errCodeGeneric
}
