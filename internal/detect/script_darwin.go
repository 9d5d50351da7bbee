//go:build darwin

package detect

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/halolight/halo/internal/domain"
)

// runScript executes an AppleScript snippet via osascript under the
// caller's context. A non-zero exit usually means the target app is
// not running or not scriptable — that is normal, not an error, so it
// reads as "NO".
func runScript(ctx context.Context, script string) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// Missed the round deadline: the engine discards this result.
			return "", domain.ErrDetectorTimeout
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "NO", nil
	}
	return strings.TrimSpace(string(out)), nil
}
