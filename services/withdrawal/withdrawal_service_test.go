package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	db.Querier
	mu          sync.Mutex
	wallets     map[int64]db.SellerWallet
	sellers     map[int64]db.Seller
	withdrawals map[uuid.UUID]db.WithdrawalRequest
	entries     []db.WalletTransaction
	failCreate  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:     map[int64]db.SellerWallet{},
		sellers:     map[int64]db.Seller{},
		withdrawals: map[uuid.UUID]db.WithdrawalRequest{},
	}
}

func (f *fakeStore) seedSeller(sellerID int64, available string, verified bool) {
	f.sellers[sellerID] = db.Seller{
		ID:           sellerID,
		FullName:     "Ada Obi",
		Email:        "ada@example.com",
		BankVerified: verified,
	}
	f.wallets[sellerID] = db.SellerWallet{
		SellerID:         sellerID,
		AvailableBalance: available,
		PendingBalance:   "0.00",
	}
}

// ExecTx serializes all wallet mutations, standing in for the row lock the
// real store takes.
func (f *fakeStore) ExecTx(ctx context.Context, fq func(q db.Querier) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	walletsBackup := make(map[int64]db.SellerWallet, len(f.wallets))
	for k, v := range f.wallets {
		walletsBackup[k] = v
	}
	entriesBackup := len(f.entries)

	if err := fq(f); err != nil {
		f.wallets = walletsBackup
		f.entries = f.entries[:entriesBackup]
		return err
	}
	return nil
}

func (f *fakeStore) GetSellerWalletForUpdate(ctx context.Context, sellerID int64) (db.SellerWallet, error) {
	wallet, ok := f.wallets[sellerID]
	if !ok {
		return db.SellerWallet{}, sql.ErrNoRows
	}
	return wallet, nil
}

func (f *fakeStore) UpdateWalletBalance(ctx context.Context, arg db.UpdateWalletBalanceParams) (db.SellerWallet, error) {
	wallet, ok := f.wallets[arg.SellerID]
	if !ok {
		return db.SellerWallet{}, sql.ErrNoRows
	}
	wallet.AvailableBalance = arg.AvailableBalance
	wallet.PendingBalance = arg.PendingBalance
	f.wallets[arg.SellerID] = wallet
	return wallet, nil
}

func (f *fakeStore) CreateWalletTransaction(ctx context.Context, arg db.CreateWalletTransactionParams) (db.WalletTransaction, error) {
	row := db.WalletTransaction{
		ID: arg.ID, SellerID: arg.SellerID, Type: arg.Type, Amount: arg.Amount,
		BalanceAfter: arg.BalanceAfter, Status: arg.Status, Reference: arg.Reference,
	}
	f.entries = append(f.entries, row)
	return row, nil
}

func (f *fakeStore) GetSellerByID(ctx context.Context, id int64) (db.Seller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seller, ok := f.sellers[id]
	if !ok {
		return db.Seller{}, sql.ErrNoRows
	}
	return seller, nil
}

func (f *fakeStore) CreateWithdrawal(ctx context.Context, arg db.CreateWithdrawalParams) (db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return db.WithdrawalRequest{}, fmt.Errorf("insert failed")
	}
	row := db.WithdrawalRequest{
		ID: arg.ID, SellerID: arg.SellerID, Amount: arg.Amount,
		BankName: arg.BankName, BankCode: arg.BankCode,
		AccountNumber: arg.AccountNumber, AccountName: arg.AccountName,
		Status: StatusPending, Reference: arg.Reference,
	}
	f.withdrawals[arg.ID] = row
	return row, nil
}

func (f *fakeStore) GetWithdrawal(ctx context.Context, id uuid.UUID) (db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.withdrawals[id]
	if !ok {
		return db.WithdrawalRequest{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakeStore) MarkWithdrawalCancelled(ctx context.Context, id uuid.UUID) (db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.withdrawals[id]
	if !ok || row.Status != StatusPending {
		return db.WithdrawalRequest{}, sql.ErrNoRows
	}
	row.Status = StatusCancelled
	f.withdrawals[id] = row
	return row, nil
}

func (f *fakeStore) UpdateWithdrawalStatus(ctx context.Context, arg db.UpdateWithdrawalStatusParams) (db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.withdrawals[arg.ID]
	if !ok {
		return db.WithdrawalRequest{}, sql.ErrNoRows
	}
	allowed := false
	for _, from := range arg.FromStatuses {
		if row.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return db.WithdrawalRequest{}, sql.ErrNoRows
	}
	row.Status = arg.Status
	row.FailureReason = arg.FailureReason
	f.withdrawals[arg.ID] = row
	return row, nil
}

func (f *fakeStore) ListWithdrawalsBySeller(ctx context.Context, arg db.ListWithdrawalsBySellerParams) ([]db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.WithdrawalRequest
	for _, row := range f.withdrawals {
		if row.SellerID == arg.SellerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingWithdrawals(ctx context.Context) ([]db.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.WithdrawalRequest
	for _, row := range f.withdrawals {
		if row.Status == StatusPending || row.Status == StatusProcessing {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeStore) availableBalance(sellerID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wallets[sellerID].AvailableBalance
}

func validDetails() BankDetails {
	return BankDetails{
		BankName:      "Guaranty Trust Bank",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ada Obi",
	}
}

func newTestService(store *fakeStore, tracker DailyTracker, cfg Config) *Service {
	ledgerService := ledger.NewLedgerService(store, logging.NewTestLogger())
	return NewWithdrawalService(store, ledgerService, nil, tracker, logging.NewTestLogger(), cfg)
}

func TestRequestReservesFundsBeforeInsert(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if request.Status != StatusPending {
		t.Errorf("status = %v, want pending", request.Status)
	}
	if store.availableBalance(1) != "3000.00" {
		t.Errorf("balance = %v, want 3000.00", store.availableBalance(1))
	}
	if request.Reference == "" {
		t.Error("expected a reference on the request")
	}
}

func TestRequestBelowMinimum(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(500), validDetails())
	if !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("err = %v, want ErrBelowMinimum", err)
	}
	if store.availableBalance(1) != "5000.00" {
		t.Errorf("balance mutated to %v", store.availableBalance(1))
	}
}

func TestRequestUnverifiedBank(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", false)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if !errors.Is(err, ErrBankNotVerified) {
		t.Fatalf("err = %v, want ErrBankNotVerified", err)
	}
}

func TestRequestInvalidBankDetails(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	details := validDetails()
	details.AccountNumber = "123" // not a ten digit NUBAN

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), details)
	if !errors.Is(err, ErrInvalidBankDetails) {
		t.Fatalf("err = %v, want ErrInvalidBankDetails", err)
	}
}

func TestRequestInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "1500.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ledger.ErrInsufficientBalance", err)
	}
	if len(store.withdrawals) != 0 {
		t.Errorf("withdrawal row created despite failed debit")
	}
}

func TestRequestInsertFailureRefunds(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	store.failCreate = true
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("err = %v, want ErrCreateFailed", err)
	}

	if store.availableBalance(1) != "5000.00" {
		t.Errorf("balance = %v after compensation, want 5000.00", store.availableBalance(1))
	}
	// Reservation debit plus compensating credit both stay on the ledger
	if len(store.entries) != 2 {
		t.Errorf("ledger entries = %d, want 2", len(store.entries))
	}
}

// failingLedger satisfies Ledger for the paths where the compensating entry
// itself must fail.
type failingLedger struct {
	debits  int
	credits int
}

func (f *failingLedger) Debit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts ledger.EntryOptions) (*ledger.Entry, error) {
	f.debits++
	return &ledger.Entry{SellerID: sellerID, Amount: amount, Reference: "TXN-FAKE"}, nil
}

func (f *failingLedger) Credit(ctx context.Context, sellerID int64, amount decimal.Decimal, opts ledger.EntryOptions) (*ledger.Entry, error) {
	f.credits++
	return nil, fmt.Errorf("ledger unavailable")
}

func TestRequestCompensationFailureFlagsReconciliation(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	store.failCreate = true

	svc := NewWithdrawalService(store, &failingLedger{}, nil, nil, logging.NewTestLogger(), Config{MinWithdrawal: 1000})

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if !errors.Is(err, ErrReconciliationRequired) {
		t.Fatalf("err = %v, want ErrReconciliationRequired", err)
	}
}

func TestCancelRefundsPendingRequest(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	result, err := svc.Cancel(context.Background(), 1, request.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if !result.RefundedAmount.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("refunded = %v, want 2000", result.RefundedAmount)
	}
	if store.availableBalance(1) != "5000.00" {
		t.Errorf("balance = %v, want 5000.00", store.availableBalance(1))
	}
	row, _ := store.GetWithdrawal(context.Background(), request.ID)
	if row.Status != StatusCancelled {
		t.Errorf("status = %v, want cancelled", row.Status)
	}
}

func TestCancelWrongOwner(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), 99, request.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCancelAlreadyProcessed(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := svc.Process(context.Background(), request.ID, StatusProcessing, ""); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), 1, request.ID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed", err)
	}
	if store.availableBalance(1) != "3000.00" {
		t.Errorf("balance = %v, reservation must stay for a picked up request", store.availableBalance(1))
	}
}

func TestCancelRaceWithOperatorUndoesRefund(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// Race the seller's cancel against an operator pickup. Whichever wins
	// the conditional status flip decides where the money ends up.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Process(context.Background(), request.ID, StatusProcessing, "")
	}()
	_, cancelErr := svc.Cancel(context.Background(), 1, request.ID)
	<-done

	row, _ := store.GetWithdrawal(context.Background(), request.ID)
	switch row.Status {
	case StatusProcessing:
		// Operator won; the refund must have been undone
		if cancelErr == nil {
			t.Error("cancel reported success while the operator held the request")
		}
		if store.availableBalance(1) != "3000.00" {
			t.Errorf("balance = %v, want 3000.00 with reservation intact", store.availableBalance(1))
		}
	case StatusCancelled:
		// Seller won; the refund stands
		if cancelErr != nil {
			t.Errorf("cancel failed after winning the race: %v", cancelErr)
		}
		if store.availableBalance(1) != "5000.00" {
			t.Errorf("balance = %v, want 5000.00 after refund", store.availableBalance(1))
		}
	default:
		t.Errorf("unexpected terminal status %v", row.Status)
	}
}

func TestProcessLifecycle(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// completed straight from pending is not a legal move
	if _, err := svc.Process(context.Background(), request.ID, StatusCompleted, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.Process(context.Background(), request.ID, StatusProcessing, ""); err != nil {
		t.Fatalf("to processing: %v", err)
	}
	result, err := svc.Process(context.Background(), request.ID, StatusCompleted, "")
	if err != nil {
		t.Fatalf("to completed: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Errorf("status = %v, want completed", result.Status)
	}

	// A completed payout keeps the funds debited
	if store.availableBalance(1) != "3000.00" {
		t.Errorf("balance = %v, want 3000.00", store.availableBalance(1))
	}
}

func TestProcessFailedRestoresFunds(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	request, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	result, err := svc.Process(context.Background(), request.ID, StatusFailed, "gateway rejected transfer")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.FailureReason != "gateway rejected transfer" {
		t.Errorf("failure reason = %q", result.FailureReason)
	}
	if store.availableBalance(1) != "5000.00" {
		t.Errorf("balance = %v after failed payout, want 5000.00", store.availableBalance(1))
	}
}

func TestProcessUnknownRequest(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	if _, err := svc.Process(context.Background(), uuid.New(), StatusProcessing, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type fakeTracker struct {
	mu     sync.Mutex
	totals map[int64]decimal.Decimal
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{totals: map[int64]decimal.Decimal{}}
}

func (f *fakeTracker) DailyWithdrawalTotal(ctx context.Context, sellerID int64) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals[sellerID], nil
}

func (f *fakeTracker) RecordWithdrawal(ctx context.Context, sellerID int64, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[sellerID] = f.totals[sellerID].Add(amount)
	return nil
}

func TestRequestDailyCap(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "50000.00", true)
	tracker := newFakeTracker()
	svc := newTestService(store, tracker, Config{MinWithdrawal: 1000, DailyCap: 5000})

	if _, err := svc.Request(context.Background(), 1, decimal.NewFromInt(4000), validDetails()); err != nil {
		t.Fatalf("first Request: %v", err)
	}

	_, err := svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
	if !errors.Is(err, ErrDailyCapExceeded) {
		t.Fatalf("err = %v, want ErrDailyCapExceeded", err)
	}
	if store.availableBalance(1) != "46000.00" {
		t.Errorf("balance = %v, capped request must not touch the wallet", store.availableBalance(1))
	}
}

// Concurrent requests against one wallet must never over-reserve: with
// 5000 available and five 2000 requests, exactly two can win.
func TestConcurrentRequestsNeverOverReserve(t *testing.T) {
	store := newFakeStore()
	store.seedSeller(1, "5000.00", true)
	svc := newTestService(store, nil, Config{MinWithdrawal: 1000})

	const attempts = 5
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Request(context.Background(), 1, decimal.NewFromInt(2000), validDetails())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ledger.ErrInsufficientBalance) {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 2 {
		t.Errorf("succeeded = %d, want exactly 2", succeeded)
	}
	if store.availableBalance(1) != "1000.00" {
		t.Errorf("balance = %v, want 1000.00", store.availableBalance(1))
	}
	if len(store.withdrawals) != 2 {
		t.Errorf("withdrawal rows = %d, want 2", len(store.withdrawals))
	}
}
