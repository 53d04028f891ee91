package cache

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper deletes expired github_cache rows on a nightly schedule. Lazy
// deletion on read remains the correctness path; the sweep keeps the table
// from accumulating rows for keys nobody reads again.
type Sweeper struct {
	db   *sql.DB
	cron *cron.Cron
}

func NewSweeper(db *sql.DB) *Sweeper {
	return &Sweeper{db: db, cron: cron.New(cron.WithSeconds())}
}

// Start schedules the nightly sweep (12:00 AM).
func (s *Sweeper) Start() {
	_, err := s.cron.AddFunc("0 0 0 * * *", s.sweep)
	if err != nil {
		log.Printf("cache: failed to schedule sweep: %v", err)
		return
	}

	log.Println("cache: expired-entry sweep scheduled (nightly at 12:00AM)")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM github_cache WHERE expires_at <= NOW();`)
	if err != nil {
		log.Printf("cache: sweep failed: %v", err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("cache: sweep removed %d expired entries", n)
	}
}
