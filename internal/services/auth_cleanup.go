package services

import (
	"log/slog"
	"time"
)

// StartTokenCleanup runs an hourly goroutine that sweeps expired refresh
// tokens. Best effort only; expiry is enforced at use regardless.
func StartTokenCleanup(svc *AuthService, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := svc.CleanupExpired()
				if err != nil {
					slog.Error("refresh token cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("refresh token cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
