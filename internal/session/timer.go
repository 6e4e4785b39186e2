package session

import (
	"fmt"
	"sync"
	"time"
)

// Scheduler runs tick every interval until the returned cancel func is called.
// Cancel must be safe to call more than once and must not block.
type Scheduler func(interval time.Duration, tick func()) (cancel func())

// TickerScheduler is the wall-clock Scheduler backed by time.Ticker.
func TickerScheduler(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				tick()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
