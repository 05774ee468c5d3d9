package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/javi11/greetbuf/internal/buffer"
	"github.com/javi11/greetbuf/internal/config"
	"github.com/javi11/greetbuf/internal/greeting"
	"github.com/javi11/greetbuf/internal/slogutil"
)

func runGreeting(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(appFs, configFile)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("failed to load config: %w", err)}
	}

	// stdout belongs to the greeting, logs go to stderr
	logger, closer := slogutil.SetupLogging(cmd.ErrOrStderr(), cfg.Log)
	defer closer.Close()
	slog.SetDefault(logger)

	alloc, err := cfg.NewAllocator()
	if err != nil {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("failed to create allocator: %w", err)}
	}
	defer func() {
		if err := buffer.CloseAllocator(alloc); err != nil {
			logger.Error("Failed to close allocator", "error", err)
		}
	}()

	ctx := slogutil.With(cmd.Context(), "allocator", cfg.GetAllocatorKind())
	logger.DebugContext(ctx, "Running greeting",
		"config_file", configFile,
		"capacity", cfg.GetCapacity(),
		"limit_bytes", cfg.Allocator.LimitBytes)

	code := greeting.Write(ctx, cmd.OutOrStdout(), greeting.Options{
		Allocator: alloc,
		Text:      cfg.Greeting.Text,
		Capacity:  cfg.GetCapacity(),
	})
	if code != greeting.ExitOK {
		return &ExitError{Code: code}
	}

	return nil
}
