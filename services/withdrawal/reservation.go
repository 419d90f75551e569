package withdrawal

import (
	"fmt"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/sirupsen/logrus"
)

// The request and cancel flows are both a two-step mutation against the
// wallet plus the withdrawal row, and both need the same discipline when
// the second step fails: issue exactly one compensating ledger entry, and
// if that compensation itself fails, stop and page an operator instead of
// retrying blindly. runCompensated is that discipline in one place.
//
// move performs the initial ledger entry (the reservation debit, or the
// cancel refund credit). commit performs the follow-up write. compensate
// reverses the initial entry. stepErr classifies a commit failure for the
// caller once compensation has succeeded.
func (s *Service) runCompensated(
	move func() (*ledger.Entry, error),
	commit func(entry *ledger.Entry) error,
	compensate func(entry *ledger.Entry) error,
	stepErr error,
) error {
	entry, err := move()
	if err != nil {
		return err
	}

	if err := commit(entry); err != nil {
		if compErr := compensate(entry); compErr != nil {
			s.logger.WithFields(logrus.Fields{
				"reference":               entry.Reference,
				"seller_id":               entry.SellerID,
				"amount":                  entry.Amount.String(),
				"commit_error":            err.Error(),
				"compensation_error":      compErr.Error(),
				"reconciliation_required": true,
			}).Error("compensating ledger entry failed, wallet state is inconsistent")
			return fmt.Errorf("%w: %v (after: %v)", ErrReconciliationRequired, compErr, err)
		}
		if stepErr != nil {
			return fmt.Errorf("%w: %v", stepErr, err)
		}
		return err
	}

	return nil
}

func reversalOptions(original *ledger.Entry, description string) ledger.EntryOptions {
	return ledger.EntryOptions{
		Description: description,
		Reference:   original.Reference + "-REV",
	}
}
