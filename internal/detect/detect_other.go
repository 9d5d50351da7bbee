//go:build !darwin

package detect

import "github.com/halolight/halo/internal/domain"

// All returns no call detectors on platforms without a detection
// backend. The engine still runs idle and lock logic.
func All() []domain.Detector {
	return nil
}
