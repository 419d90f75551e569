package escrow

import (
	"context"
	"fmt"
	"time"
)

// RunSweeper periodically releases lapsed holds until ctx is cancelled.
// Cancellation lands between iterations, never mid-release.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			released, err := s.AutoReleaseDue(ctx)
			if err != nil {
				s.logger.Error(fmt.Sprintf("escrow sweep failed: %v", err))
				continue
			}
			if released > 0 {
				s.logger.Info(fmt.Sprintf("escrow sweep released %d holds", released))
			}
		}
	}
}
