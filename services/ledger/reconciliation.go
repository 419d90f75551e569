package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Reconcile recomputes each wallet balance from the sum of its completed
// ledger entries and flags drift. The cached balance column should only
// ever disagree with the ledger after an operational incident, so drift is
// logged loudly for an operator rather than silently corrected.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	wallets, err := s.store.ListSellerWallets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list wallets: %w", err)
	}

	drifted := 0
	for _, wallet := range wallets {
		replayed, err := s.store.SumCompletedWalletTransactions(ctx, wallet.SellerID)
		if err != nil {
			return drifted, fmt.Errorf("replay ledger for seller %d: %w", wallet.SellerID, err)
		}

		ledgerBalance, err := decimal.NewFromString(replayed)
		if err != nil {
			return drifted, fmt.Errorf("parse replayed balance: %w", err)
		}
		cached, err := decimal.NewFromString(wallet.AvailableBalance)
		if err != nil {
			return drifted, fmt.Errorf("parse cached balance: %w", err)
		}

		if !ledgerBalance.Equal(cached) {
			drifted++
			s.logger.WithFields(logrus.Fields{
				"seller_id":               wallet.SellerID,
				"cached_balance":          cached.String(),
				"ledger_balance":          ledgerBalance.String(),
				"reconciliation_required": true,
			}).Error("wallet balance drifted from ledger")
		}
	}

	return drifted, nil
}

// RunReconciler loops Reconcile on a fixed interval until ctx is cancelled.
func (s *Service) RunReconciler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reconcile(ctx); err != nil {
				s.logger.Error(fmt.Sprintf("ledger reconciliation run failed: %v", err))
			}
		}
	}
}
