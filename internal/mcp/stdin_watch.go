package mcp

import (
	"context"
	"os"
	"time"

	"enigma/internal/logging"
)

// ParentPollInterval is how often WatchStdin checks the parent pid.
var ParentPollInterval = 2 * time.Second

// WatchStdin cancels the server when the parent process goes away, so an
// editor restart does not leave orphaned servers behind. It never reads
// stdin: the stdio transport owns it.
//
// The goroutine exits when ctx is canceled or parent death is detected.
func WatchStdin(ctx context.Context, cancelFn context.CancelFunc) {
	ppid := os.Getppid()
	logger := logging.New("mcp")
	go func() {
		ticker := time.NewTicker(ParentPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					logger.Warn("parent process exited, shutting down", "ppid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
