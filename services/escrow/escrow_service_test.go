package escrow

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	db "github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/db/sqlc"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/ledger"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/monitoring/logging"
	"github.com/Jaminoliver/Unihub-Sellers-Dashboard-sub000/services/notification"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeStore struct {
	db.Querier
	mu      sync.Mutex
	wallets map[int64]db.SellerWallet
	escrows map[uuid.UUID]db.EscrowTransaction
	orders  map[uuid.UUID]db.Order
	sellers map[int64]db.Seller
	entries []db.WalletTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets: map[int64]db.SellerWallet{},
		escrows: map[uuid.UUID]db.EscrowTransaction{},
		orders:  map[uuid.UUID]db.Order{},
		sellers: map[int64]db.Seller{},
	}
}

func (f *fakeStore) ExecTx(ctx context.Context, fq func(q db.Querier) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	walletsBackup := copyMap(f.wallets)
	escrowsBackup := copyMap(f.escrows)
	ordersBackup := copyMap(f.orders)
	entriesBackup := len(f.entries)

	if err := fq(f); err != nil {
		f.wallets = walletsBackup
		f.escrows = escrowsBackup
		f.orders = ordersBackup
		f.entries = f.entries[:entriesBackup]
		return err
	}
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
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
	row := db.WalletTransaction{
		ID: arg.ID, SellerID: arg.SellerID, OrderID: arg.OrderID, Type: arg.Type,
		Amount: arg.Amount, BalanceAfter: arg.BalanceAfter, Status: arg.Status,
		Description: arg.Description, Reference: arg.Reference,
	}
	f.entries = append(f.entries, row)
	return row, nil
}

func (f *fakeStore) CreateEscrowTransaction(ctx context.Context, arg db.CreateEscrowTransactionParams) (db.EscrowTransaction, error) {
	row := db.EscrowTransaction{
		ID: arg.ID, OrderID: arg.OrderID, SellerID: arg.SellerID,
		Amount: arg.Amount, Status: StatusHolding, HoldUntil: arg.HoldUntil,
	}
	f.escrows[arg.OrderID] = row
	return row, nil
}

// GetEscrowTransactionByOrder is only called outside ExecTx, so it takes
// the lock itself. The ForUpdate variant runs inside ExecTx, which already
// holds it.
func (f *fakeStore) GetEscrowTransactionByOrder(ctx context.Context, orderID uuid.UUID) (db.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.escrows[orderID]
	if !ok {
		return db.EscrowTransaction{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakeStore) GetEscrowTransactionByOrderForUpdate(ctx context.Context, orderID uuid.UUID) (db.EscrowTransaction, error) {
	row, ok := f.escrows[orderID]
	if !ok {
		return db.EscrowTransaction{}, sql.ErrNoRows
	}
	return row, nil
}

func (f *fakeStore) UpdateEscrowTransactionStatus(ctx context.Context, arg db.UpdateEscrowTransactionStatusParams) (db.EscrowTransaction, error) {
	for orderID, row := range f.escrows {
		if row.ID == arg.ID {
			row.Status = arg.Status
			row.ReleasedAt = arg.ReleasedAt
			f.escrows[orderID] = row
			return row, nil
		}
	}
	return db.EscrowTransaction{}, sql.ErrNoRows
}

func (f *fakeStore) UpdateEscrowHoldUntil(ctx context.Context, arg db.UpdateEscrowHoldUntilParams) (db.EscrowTransaction, error) {
	for orderID, row := range f.escrows {
		if row.ID == arg.ID && row.Status == StatusHolding {
			row.HoldUntil = arg.HoldUntil
			f.escrows[orderID] = row
			return row, nil
		}
	}
	return db.EscrowTransaction{}, sql.ErrNoRows
}

func (f *fakeStore) ListDueEscrowTransactions(ctx context.Context, arg db.ListDueEscrowTransactionsParams) ([]db.EscrowTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []db.EscrowTransaction
	for _, row := range f.escrows {
		if row.Status == StatusHolding && !row.HoldUntil.After(arg.HoldUntil) {
			due = append(due, row)
		}
	}
	return due, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (db.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return db.Order{}, sql.ErrNoRows
	}
	return order, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, arg db.UpdateOrderStatusParams) (db.Order, error) {
	order, ok := f.orders[arg.ID]
	if !ok {
		return db.Order{}, sql.ErrNoRows
	}
	order.Status = arg.Status
	f.orders[arg.ID] = order
	return order, nil
}

func (f *fakeStore) GetSellerByID(ctx context.Context, id int64) (db.Seller, error) {
	seller, ok := f.sellers[id]
	if !ok {
		return db.Seller{}, sql.ErrNoRows
	}
	return seller, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (f *fakeNotifier) Emit(ctx context.Context, userID int64, event notification.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeNotifier) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, event := range f.events {
		types = append(types, event.Type)
	}
	return types
}

func newTestService(store *fakeStore, notifier Notifier) *Service {
	ledgerService := ledger.NewLedgerService(store, logging.NewTestLogger())
	return NewEscrowService(store, ledgerService, notifier, logging.NewTestLogger(), Config{
		CommissionRate: 0.05,
		HoldDays:       7,
		FastHoldHours:  48,
	})
}

func seedOrder(store *fakeStore, sellerID, buyerID int64, total string) uuid.UUID {
	orderID := uuid.New()
	store.orders[orderID] = db.Order{
		ID: orderID, SellerID: sellerID, BuyerID: buyerID,
		Total: total, DeliveryCode: "CODE1234", Status: "paid",
	}
	store.wallets[sellerID] = db.SellerWallet{SellerID: sellerID, AvailableBalance: "0.00", PendingBalance: "0.00"}
	store.sellers[sellerID] = db.Seller{ID: sellerID, FullName: "Ada Obi", Email: "ada@example.com"}
	return orderID
}

func TestOpenHoldTracksPendingBalance(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	hold, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold())
	if err != nil {
		t.Fatalf("OpenHold: %v", err)
	}

	if hold.Status != StatusHolding {
		t.Errorf("status = %v, want holding", hold.Status)
	}
	if store.wallets[1].PendingBalance != "100.00" {
		t.Errorf("pending = %v, want 100.00", store.wallets[1].PendingBalance)
	}
	if store.wallets[1].AvailableBalance != "0.00" {
		t.Errorf("available = %v, want 0.00 while holding", store.wallets[1].AvailableBalance)
	}
}

func TestOpenHoldRejectsDuplicate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("first OpenHold: %v", err)
	}
	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != ErrDuplicateHold {
		t.Fatalf("second OpenHold err = %v, want ErrDuplicateHold", err)
	}
}

func TestOpenHoldRejectsNonPositiveAmount(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.Zero, svc.StandardHold()); err != ErrInvalidAmount {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestConfirmDeliveryReleasesWithCommission(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}

	result, err := svc.ConfirmDelivery(context.Background(), orderID, "CODE1234", "CODE1234")
	if err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}

	if !result.Commission.Equal(decimal.NewFromInt(5)) {
		t.Errorf("commission = %v, want 5", result.Commission)
	}
	if !result.Payout.Equal(decimal.NewFromInt(95)) {
		t.Errorf("payout = %v, want 95", result.Payout)
	}
	if store.wallets[1].AvailableBalance != "95.00" {
		t.Errorf("available = %v, want 95.00", store.wallets[1].AvailableBalance)
	}
	if store.wallets[1].PendingBalance != "0.00" {
		t.Errorf("pending = %v, want 0.00", store.wallets[1].PendingBalance)
	}
	if store.escrows[orderID].Status != StatusReleased {
		t.Errorf("escrow status = %v, want released", store.escrows[orderID].Status)
	}
	if store.orders[orderID].Status != "completed" {
		t.Errorf("order status = %v, want completed", store.orders[orderID].Status)
	}

	types := notifier.eventTypes()
	if len(types) != 2 || types[0] != notification.TypeEscrowReleased || types[1] != notification.TypeOrderDelivered {
		t.Errorf("notification types = %v", types)
	}
}

func TestConfirmDeliveryRejectsBadCode(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}

	for _, code := range []string{"", "WRONG", "code1234"} {
		if _, err := svc.ConfirmDelivery(context.Background(), orderID, code, "CODE1234"); err != ErrInvalidCode {
			t.Errorf("ConfirmDelivery(%q) err = %v, want ErrInvalidCode", code, err)
		}
	}

	if store.wallets[1].AvailableBalance != "0.00" {
		t.Errorf("available mutated to %v on rejected code", store.wallets[1].AvailableBalance)
	}
}

func TestConfirmDeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}
	if _, err := svc.ConfirmDelivery(context.Background(), orderID, "CODE1234", "CODE1234"); err != nil {
		t.Fatalf("first ConfirmDelivery: %v", err)
	}

	if _, err := svc.ConfirmDelivery(context.Background(), orderID, "CODE1234", "CODE1234"); err != ErrAlreadyReleased {
		t.Fatalf("second ConfirmDelivery err = %v, want ErrAlreadyReleased", err)
	}
	if store.wallets[1].AvailableBalance != "95.00" {
		t.Errorf("available = %v after retry, want 95.00", store.wallets[1].AvailableBalance)
	}
}

func TestExtendHoldLeavesSettledHoldsAlone(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}
	if _, err := svc.ConfirmDelivery(context.Background(), orderID, "CODE1234", "CODE1234"); err != nil {
		t.Fatalf("ConfirmDelivery: %v", err)
	}

	released := store.escrows[orderID]
	if err := svc.ExtendHold(context.Background(), orderID, time.Now().Add(30*24*time.Hour)); err != nil {
		t.Fatalf("ExtendHold: %v", err)
	}
	if !store.escrows[orderID].HoldUntil.Equal(released.HoldUntil) {
		t.Error("hold_until changed on a settled hold")
	}
}

func TestExtendHoldPushesWindow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}

	newUntil := time.Now().Add(30 * 24 * time.Hour)
	if err := svc.ExtendHold(context.Background(), orderID, newUntil); err != nil {
		t.Fatalf("ExtendHold: %v", err)
	}
	if !store.escrows[orderID].HoldUntil.Equal(newUntil) {
		t.Errorf("hold_until = %v, want %v", store.escrows[orderID].HoldUntil, newUntil)
	}
}

func TestAutoReleaseDueOnlyTouchesLapsedHolds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	dueOrder := seedOrder(store, 1, 2, "100.00")
	freshOrder := seedOrder(store, 3, 4, "50.00")

	if _, err := svc.OpenHold(context.Background(), dueOrder, 1, decimal.NewFromInt(100), -time.Hour); err != nil {
		t.Fatalf("OpenHold due: %v", err)
	}
	if _, err := svc.OpenHold(context.Background(), freshOrder, 3, decimal.NewFromInt(50), svc.StandardHold()); err != nil {
		t.Fatalf("OpenHold fresh: %v", err)
	}

	released, err := svc.AutoReleaseDue(context.Background())
	if err != nil {
		t.Fatalf("AutoReleaseDue: %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}
	if store.escrows[dueOrder].Status != StatusReleased {
		t.Errorf("due hold status = %v, want released", store.escrows[dueOrder].Status)
	}
	if store.escrows[freshOrder].Status != StatusHolding {
		t.Errorf("fresh hold status = %v, want holding", store.escrows[freshOrder].Status)
	}
}

func TestSweepRacingConfirmationReleasesOnce(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)
	orderID := seedOrder(store, 1, 2, "100.00")

	if _, err := svc.OpenHold(context.Background(), orderID, 1, decimal.NewFromInt(100), -time.Hour); err != nil {
		t.Fatalf("OpenHold: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.ConfirmDelivery(context.Background(), orderID, "CODE1234", "CODE1234")
	}()
	go func() {
		defer wg.Done()
		_, _ = svc.AutoReleaseDue(context.Background())
	}()
	wg.Wait()

	// Whichever path lost the race must not have credited again
	if store.wallets[1].AvailableBalance != "95.00" {
		t.Errorf("available = %v, want exactly one payout of 95.00", store.wallets[1].AvailableBalance)
	}
	if len(store.entries) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(store.entries))
	}
}
