package graph

import (
	"context"
	"log"
	"time"
)

// Refresher rebuilds the whole discovery graph once a night, off-peak
type Refresher struct {
	service Service
	hour    int
}

func NewRefresher(service Service, hour int) *Refresher {
	return &Refresher{service: service, hour: hour}
}

func (r *Refresher) Start(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, 0, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			r.run(ctx)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (r *Refresher) run(ctx context.Context) {
	log.Println("Starting discovery graph refresh...")

	startTime := time.Now()
	if err := r.service.RefreshAll(ctx); err != nil {
		log.Printf("Discovery graph refresh failed: %v", err)
		return
	}

	log.Printf("Discovery graph refresh completed in %v", time.Since(startTime))
}
