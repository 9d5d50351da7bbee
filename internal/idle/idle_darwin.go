//go:build darwin

package idle

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/halolight/halo/internal/domain"
)

// osIdleDuration returns how long the user has been idle on macOS.
// Uses ioreg to query HIDIdleTime (in nanoseconds).
func osIdleDuration(ctx context.Context) (time.Duration, error) {
	out, err := exec.CommandContext(ctx, "ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	// Parse "HIDIdleTime" = <nanoseconds>
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		return time.Duration(ns), nil
	}
	return 0, domain.ErrNoIdleSource
}

// osScreenLocked checks if the macOS screen is locked via the Quartz
// session dictionary (no CGO needed). Any failure reads as unlocked —
// lock detection is best-effort.
func osScreenLocked(ctx context.Context) bool {
	out, err := exec.CommandContext(ctx, "python3", "-c",
		`import Quartz; d=Quartz.CGSessionCopyCurrentDictionary(); print(d.get("CGSSessionScreenIsLocked",0))`).Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "1"
}
