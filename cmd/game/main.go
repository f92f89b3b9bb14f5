package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/tomz197/blockfall/internal/config"
	"github.com/tomz197/blockfall/internal/loop"
	"github.com/tomz197/blockfall/internal/piece"
	"github.com/tomz197/blockfall/internal/tui"
)

func main() {
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	seed := config.GetEnvUint64("BLOCKFALL_SEED", 0)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := piece.NewSource(seed)
	frontend := config.GetEnv("BLOCKFALL_FRONTEND", "tcell")
	logger.Info("starting", "frontend", frontend, "seed", seed)

	switch frontend {
	case "tcell":
		err = runTcell(src, logger)
	case "ansi":
		err = runANSI(src, logger)
	default:
		err = fmt.Errorf("unknown frontend %q (want tcell or ansi)", frontend)
	}
	if err != nil {
		logger.Error("game failed", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// newLogger writes to BLOCKFALL_LOG_FILE when set. The terminal belongs to the
// game, so logs are discarded otherwise.
func newLogger() (*log.Logger, func(), error) {
	level := config.GetEnvLevel("LOG_LEVEL", log.InfoLevel)
	path := config.GetEnv("BLOCKFALL_LOG_FILE", "")
	if path == "" {
		return log.NewWithOptions(io.Discard, log.Options{Level: level}), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "blockfall",
	})
	return logger, func() { _ = f.Close() }, nil
}

func runTcell(src piece.Source, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(screen, tui.Options{Source: src, Logger: logger})
	return app.Run(ctx)
}

func runANSI(src piece.Source, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	return loop.Run(reader, os.Stdout, loop.Options{
		Username: os.Getenv("USER"),
		Source:   src,
		Logger:   logger,
	})
}
