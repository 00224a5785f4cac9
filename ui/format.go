package ui

import (
	"fmt"
	"time"
)

// FormatUptime renders d as mm:ss, or h:mm:ss once it reaches an hour.
func FormatUptime(d time.Duration) string {
	sec := int(d / time.Second)
	if sec < 0 {
		sec = 0
	}
	if sec >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
