package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore keeps wallets and ledger rows in memory. ExecTx snapshots state
// and restores it when the callback fails, mirroring a transaction rollback.
type fakeStore struct {
	db.Querier
	mu        sync.Mutex
	wallets   map[int64]db.SellerWallet
	entries   []db.WalletTransaction
	failEntry bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{wallets: map[int64]db.SellerWallet{}}
}

func (f *fakeStore) addWallet(sellerID int64, available, pending string) {
	f.wallets[sellerID] = db.SellerWallet{
		SellerID:         sellerID,
		AvailableBalance: available,
		PendingBalance:   pending,
	}
}

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

func (f *fakeStore) GetSellerWallet(ctx context.Context, sellerID int64) (db.SellerWallet, error) {
	wallet, ok := f.wallets[sellerID]
	if !ok {
		return db.SellerWallet{}, sql.ErrNoRows
	}
	return wallet, nil
}

func (f *fakeStore) GetSellerWalletForUpdate(ctx context.Context, sellerID int64) (db.SellerWallet, error) {
	return f.GetSellerWallet(ctx, sellerID)
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
	if f.failEntry {
		return db.WalletTransaction{}, fmt.Errorf("insert failed")
	}
	row := db.WalletTransaction{
		ID:           arg.ID,
		SellerID:     arg.SellerID,
		OrderID:      arg.OrderID,
		Type:         arg.Type,
		Amount:       arg.Amount,
		BalanceAfter: arg.BalanceAfter,
		Status:       arg.Status,
		Description:  arg.Description,
		Reference:    arg.Reference,
	}
	f.entries = append(f.entries, row)
	return row, nil
}

func (f *fakeStore) ListWalletTransactionsBySeller(ctx context.Context, arg db.ListWalletTransactionsBySellerParams) ([]db.WalletTransaction, error) {
	var out []db.WalletTransaction
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].SellerID == arg.SellerID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListSellerWallets(ctx context.Context) ([]db.SellerWallet, error) {
	var out []db.SellerWallet
	for _, wallet := range f.wallets {
		out = append(out, wallet)
	}
	return out, nil
}

func (f *fakeStore) SumCompletedWalletTransactions(ctx context.Context, sellerID int64) (string, error) {
	sum := decimal.Zero
	for _, entry := range f.entries {
		if entry.SellerID != sellerID || entry.Status != StatusCompleted {
			continue
		}
		amount, err := decimal.NewFromString(entry.Amount)
		if err != nil {
			return "", err
		}
		if entry.Type == TypeDebit {
			amount = amount.Neg()
		}
		sum = sum.Add(amount)
	}
	return sum.StringFixed(2), nil
}

func newTestLedger(store *fakeStore) *Service {
	return NewLedgerService(store, logging.NewTestLogger())
}

func TestCreditIncreasesBalanceAndAppendsEntry(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "100.00", "0.00")
	svc := newTestLedger(store)

	entry, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(50), EntryOptions{Description: "test credit"})
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}

	if !entry.BalanceAfter.Equal(decimal.NewFromInt(150)) {
		t.Errorf("balance after = %v, want 150", entry.BalanceAfter)
	}
	if entry.Reference == "" {
		t.Error("expected a generated reference")
	}
	if store.wallets[1].AvailableBalance != "150.00" {
		t.Errorf("stored balance = %v, want 150.00", store.wallets[1].AvailableBalance)
	}
	if len(store.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(store.entries))
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "20.00", "0.00")
	svc := newTestLedger(store)

	_, err := svc.Debit(context.Background(), 1, decimal.NewFromInt(50), EntryOptions{})
	if err != ErrInsufficientBalance {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	if store.wallets[1].AvailableBalance != "20.00" {
		t.Errorf("balance mutated to %v on failed debit", store.wallets[1].AvailableBalance)
	}
	if len(store.entries) != 0 {
		t.Errorf("entries = %d, want 0", len(store.entries))
	}
}

func TestApplyRejectsNonPositiveAmounts(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "100.00", "0.00")
	svc := newTestLedger(store)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := svc.Credit(context.Background(), 1, amount, EntryOptions{}); err != ErrInvalidAmount {
			t.Errorf("Credit(%v) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestApplyMissingWallet(t *testing.T) {
	svc := newTestLedger(newFakeStore())

	_, err := svc.Credit(context.Background(), 42, decimal.NewFromInt(10), EntryOptions{})
	if err != ErrWalletNotFound {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}

func TestApplyPendingDelta(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "0.00", "100.00")
	svc := newTestLedger(store)

	// Escrow release: credit payout, drain the held amount
	orderID := uuid.New()
	err := store.ExecTx(context.Background(), func(q db.Querier) error {
		_, applyErr := svc.Apply(context.Background(), q, 1, TypeCredit, decimal.NewFromInt(95), EntryOptions{
			OrderID:      &orderID,
			PendingDelta: decimal.NewFromInt(-100),
		})
		return applyErr
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	wallet := store.wallets[1]
	if wallet.AvailableBalance != "95.00" {
		t.Errorf("available = %v, want 95.00", wallet.AvailableBalance)
	}
	if wallet.PendingBalance != "0.00" {
		t.Errorf("pending = %v, want 0.00", wallet.PendingBalance)
	}
}

func TestFailedEntryWriteRollsBackBalance(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "100.00", "0.00")
	store.failEntry = true
	svc := newTestLedger(store)

	_, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(50), EntryOptions{})
	if err == nil {
		t.Fatal("expected error when the ledger write fails")
	}

	if store.wallets[1].AvailableBalance != "100.00" {
		t.Errorf("balance = %v after rollback, want 100.00", store.wallets[1].AvailableBalance)
	}
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "0.00", "0.00")
	svc := newTestLedger(store)

	for i := 1; i <= 3; i++ {
		if _, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(int64(i)), EntryOptions{}); err != nil {
			t.Fatalf("Credit: %v", err)
		}
	}

	entries, err := svc.History(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("newest entry amount = %v, want 3", entries[0].Amount)
	}
}

func TestReconcileFlagsDrift(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "100.00", "0.00")
	svc := newTestLedger(store)

	// Ledger only accounts for 60 of the cached 100
	_, err := store.CreateWalletTransaction(context.Background(), db.CreateWalletTransactionParams{
		ID: uuid.New(), SellerID: 1, Type: TypeCredit, Amount: "60.00",
		BalanceAfter: "60.00", Status: StatusCompleted, Reference: "TXN-TEST",
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	drifted, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if drifted != 1 {
		t.Errorf("drifted = %d, want 1", drifted)
	}
}

func TestReconcileCleanWallet(t *testing.T) {
	store := newFakeStore()
	store.addWallet(1, "0.00", "0.00")
	svc := newTestLedger(store)

	if _, err := svc.Credit(context.Background(), 1, decimal.NewFromInt(75), EntryOptions{}); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	drifted, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if drifted != 0 {
		t.Errorf("drifted = %d, want 0", drifted)
	}
}
