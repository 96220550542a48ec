package watchdog

import (
	"fmt"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

func startMessage(timeoutMs int64, info string, now time.Time) string {
	return fmt.Sprintf("[WATCHDOG] Auto-Started\n\nTimeout: %dms\n\nInfo: %s\n\nTime: %s",
		timeoutMs, info, now.Format(timeLayout))
}

func updateMessage(oldMs, newMs int64, info string, now time.Time) string {
	return fmt.Sprintf("[WATCHDOG] Timeout Updated\n\nOld Timeout: %dms\n\nNew Timeout: %dms\n\nInfo: %s\n\nTime: %s",
		oldMs, newMs, info, now.Format(timeLayout))
}

func stopMessage(reason string, now time.Time) string {
	return fmt.Sprintf("[WATCHDOG] Auto-Stopped\n\nReason: %s\n\nTime: %s",
		reason, now.Format(timeLayout))
}

func timeoutMessage(startInfo string, timeoutMs int64, elapsedMs float64, lastFeed, now time.Time) string {
	last := "Never"
	if !lastFeed.IsZero() {
		last = lastFeed.Format(timeLayout)
	}
	return fmt.Sprintf("[WATCHDOG] Timeout Alert!\n\nStart Info: %s\n\nTimeout Threshold: %dms\n\nElapsed Time: %.1fms\n\nLast Feed: %s\n\nAlert Time: %s",
		startInfo, timeoutMs, elapsedMs, last, now.Format(timeLayout))
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
