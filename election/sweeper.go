// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"log/slog"
	"time"
)

// Sweeper runs Sweep on a fixed interval until stopped. Sweep failures
// are logged and the ticker keeps running; a missed sweep is self-healing
// because the voting path reconciles status on every attempt.
type Sweeper struct {
	db     *sql.DB
	ticker *time.Ticker
	done   chan struct{}
}

// StartSweeper launches the background status sweeper.
func StartSweeper(db *sql.DB, interval time.Duration) *Sweeper {
	s := &Sweeper{
		db:     db,
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				activated, completed, err := Sweep(s.db, time.Now())
				if err != nil {
					slog.Error("election status sweep failed", "error", err)
					continue
				}
				if activated > 0 || completed > 0 {
					slog.Info("election status sweep",
						"activated", activated,
						"completed", completed,
					)
				}
			}
		}
	}()

	return s
}

// Stop halts the sweeper. Safe to call once.
func (s *Sweeper) Stop() {
	s.ticker.Stop()
	close(s.done)
}
