package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/perch/internal/state"
	"github.com/five82/perch/internal/wpcom"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store. The
// wait between polls doubles with each consecutive failure, up to maxBackoff.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, api wpcom.SettingsAPI, site string, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, api, site)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff returns base * 2^failures, capped at maxBackoff. A base
// already above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, api wpcom.SettingsAPI, site string) error {
	record, err := api.FetchSite(ctx, site)
	if err != nil {
		store.Update(nil, nil, err)
		if ctx.Err() == nil {
			slog.Warn("site poll failed", "site", site, "error", err)
		}
		return err
	}
	raw, err := api.FetchSettings(ctx, site)
	if err != nil {
		store.Update(nil, nil, err)
		if ctx.Err() == nil {
			slog.Warn("settings poll failed", "site", site, "error", err)
		}
		return err
	}
	store.Update(record, raw, nil)
	slog.Debug("settings polled", "site", site, "site_id", record.ID, "keys", len(raw))
	return nil
}
