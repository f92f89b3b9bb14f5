// Package loop runs a single local game over an ANSI terminal.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blockfall/internal/draw"
	"github.com/tomz197/blockfall/internal/loop/client"
	"github.com/tomz197/blockfall/internal/loop/server"
	"github.com/tomz197/blockfall/internal/piece"
)

// Options configures a local game.
type Options struct {
	Username     string
	Source       piece.Source      // Defaults to a time-seeded source
	TermSizeFunc draw.TermSizeFunc // Defaults to the size of os.Stdout
	Logger       *log.Logger
}

// Run plays until the player quits. The session is backed by a private
// server so the leaderboard covers the games of this run.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gs := server.NewServer(server.Options{Logger: opts.Logger})
	go gs.Run(ctx)

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		Source:       opts.Source,
		Logger:       opts.Logger,
	})
	if err := c.Run(); err != nil {
		return fmt.Errorf("local game: %w", err)
	}
	return nil
}
