//go:build linux

package idle

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// osIdleDuration returns how long the user has been idle on Linux.
// Prefers xprintidle (X11); falls back to logind's IdleSinceHint via
// loginctl. Headless boxes with neither report an error and the engine
// keeps its previous sample.
func osIdleDuration(ctx context.Context) (time.Duration, error) {
	if out, err := exec.CommandContext(ctx, "xprintidle").Output(); err == nil {
		ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
		if err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
	}

	out, err := exec.CommandContext(ctx, "loginctl", "show-session", "self",
		"--property=IdleSinceHint", "--value").Output()
	if err != nil {
		return 0, fmt.Errorf("no idle source (tried xprintidle, loginctl): %w", err)
	}
	usec, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil || usec == 0 {
		// IdleSinceHint of 0 means "not idle".
		return 0, nil
	}
	since := time.UnixMicro(usec)
	return time.Since(since), nil
}

// osScreenLocked checks logind's LockedHint. Best-effort: any failure
// reads as unlocked.
func osScreenLocked(ctx context.Context) bool {
	out, err := exec.CommandContext(ctx, "loginctl", "show-session", "self",
		"--property=LockedHint", "--value").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "yes"
}
