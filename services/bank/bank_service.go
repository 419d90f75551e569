package bank

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/api/models"
	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/providers/fiat"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification/notification_channel"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/redis"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/security"
)

type Store interface {
	GetSellerByID(ctx context.Context, id int64) (db.Seller, error)
	UpdateSellerBankDetails(ctx context.Context, arg db.UpdateSellerBankDetailsParams) (db.Seller, error)
}

type Notifier interface {
	Emit(ctx context.Context, userID int64, event notification.Event)
}

// Service verifies seller payout accounts against the fiat provider and
// serves the supported bank list. Bank lists live in Redis; resolved
// accounts sit in a short-lived in-process cache because sellers typically
// resolve and then immediately verify the same account.
type Service struct {
	store     Store
	providers *providers.ProviderService
	redis     *redis.RedisService
	cache     *security.Cache
	notifier  Notifier
	logger    *logging.Logger
}

func NewBankService(store Store, providerService *providers.ProviderService, redisService *redis.RedisService, cache *security.Cache, notifier Notifier, logger *logging.Logger) *Service {
	return &Service{
		store:     store,
		providers: providerService,
		redis:     redisService,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
	}
}

// ListBanks returns the supported banks, filtered by query when given.
func (s *Service) ListBanks(ctx context.Context, query *string) (*models.BankResponseCollection, error) {
	if s.redis != nil {
		cachedBanks, err := s.redis.GetBankResponseCollection(ctx, "banks")
		if err != nil {
			s.logger.Error(fmt.Sprintf("failed to fetch banks from redisCache: %v", err))
		} else if len(cachedBanks) > 0 {
			s.logger.Info("banks retrieved from cache")
			if query != nil {
				return cachedBanks.FindBanks(*query), nil
			}
			return &cachedBanks, nil
		}
	}

	s.logger.Info("retrieving banks from provider")

	fiatProvider, err := s.fiatProvider()
	if err != nil {
		return nil, err
	}

	banks, err := fiatProvider.GetBanks()
	if err != nil {
		s.logger.Error(fmt.Sprintf("Error connecting to FIAT Provider - Paystack: %v", err))
		return nil, fmt.Errorf("error connecting to FIAT Provider: %v", err)
	}

	banksCollection := models.ToBankResponseCollection(*banks)

	if s.redis != nil {
		s.logger.Info("storing banks into cache")
		if err := s.redis.StoreBankResponseCollection(ctx, "banks", banksCollection); err != nil {
			// A cold cache on the next call beats failing this one
			s.logger.Error(fmt.Sprintf("failed to store banks into redisCache: %v", err))
		}
	}

	if query != nil {
		return banksCollection.FindBanks(*query), nil
	}
	return &banksCollection, nil
}

// ResolveAccount looks up the account holder's name at the bank.
func (s *Service) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*fiat.AccountInfo, error) {
	cacheKey := fmt.Sprintf("resolve:%s:%s", bankCode, accountNumber)
	if s.cache != nil {
		if cached, err := s.cache.Get(cacheKey); err == nil {
			if info, ok := cached.(*fiat.AccountInfo); ok {
				return info, nil
			}
		}
	}

	fiatProvider, err := s.fiatProvider()
	if err != nil {
		return nil, err
	}

	accountInfo, err := fiatProvider.ResolveAccount(accountNumber, bankCode)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Error connecting to FIAT Provider - Paystack: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrAccountResolution, err)
	}

	if s.cache != nil {
		s.cache.Insert(cacheKey, accountInfo)
	}
	return accountInfo, nil
}

// Verify resolves the account and checks the holder's name against the
// seller's registered name. Only a strict match verifies automatically;
// a loose match is bounced back so support can review it.
func (s *Service) Verify(ctx context.Context, sellerID int64, accountNumber, bankCode, bankName string) (*db.Seller, error) {
	seller, err := s.store.GetSellerByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("fetch seller: %w", err)
	}

	accountInfo, err := s.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}

	switch MatchName(accountInfo.AccountName, seller.FullName) {
	case MatchStrict:
	case MatchLoose:
		s.logger.Info(fmt.Sprintf("weak name match for seller %d: %q vs %q", sellerID, accountInfo.AccountName, seller.FullName))
		return nil, ErrNameMatchWeak
	default:
		return nil, ErrNameMismatch
	}

	updated, err := s.store.UpdateSellerBankDetails(ctx, db.UpdateSellerBankDetailsParams{
		ID:            sellerID,
		BankVerified:  true,
		BankName:      sql.NullString{String: bankName, Valid: bankName != ""},
		BankCode:      sql.NullString{String: bankCode, Valid: true},
		AccountNumber: sql.NullString{String: accountNumber, Valid: true},
		AccountName:   sql.NullString{String: accountInfo.AccountName, Valid: true},
	})
	if err != nil {
		return nil, fmt.Errorf("store bank details: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Emit(ctx, sellerID, notification.Event{
			Type:    notification.TypeBankVerified,
			Title:   "Bank account verified",
			Message: fmt.Sprintf("Withdrawals will be paid to %s (%s)", accountInfo.AccountName, bankName),
			Metadata: map[string]interface{}{
				"bank_code":      bankCode,
				"account_number": accountNumber,
			},
			Recipient: notification_channel.Recipient{
				Email:         updated.Email,
				Phone:         updated.Phone.String,
				ExpoPushToken: updated.ExpoPushToken.String,
				FCMToken:      updated.FcmToken.String,
			},
		})
	}

	return &updated, nil
}

func (s *Service) fiatProvider() (*fiat.PaystackProvider, error) {
	provider, exists := s.providers.GetProvider(providers.Paystack)
	if !exists {
		s.logger.Error("FIAT Provider does not exist - Paystack")
		return nil, ErrProviderUnavailable
	}

	fiatProvider, ok := provider.(*fiat.PaystackProvider)
	if !ok {
		s.logger.Error("could not resolve to FIAT Provider - Paystack")
		return nil, ErrProviderUnavailable
	}
	return fiatProvider, nil
}
