package redis

/// This file tracks per-seller withdrawal volume for the daily cap

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// isSameDay checks if two times are on the same calendar day
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func withdrawalVolumeKey(sellerID int64) string {
	return fmt.Sprintf("daily_withdrawals:%d", sellerID)
}

// RecordWithdrawal adds amount to the seller's running total for today.
// A stale entry from a previous day is overwritten rather than added to.
func (r *RedisService) RecordWithdrawal(ctx context.Context, sellerID int64, amount decimal.Decimal) error {
	key := withdrawalVolumeKey(sellerID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get daily withdrawals: %w", err)
	}

	total := amount
	createdAt := time.Now()
	if len(fields) > 0 {
		storedAt, parseErr := time.Parse(time.RFC3339, fields["created_at"])
		stored, amountErr := decimal.NewFromString(fields["total_amount"])
		if parseErr == nil && amountErr == nil && isSameDay(storedAt, time.Now()) {
			total = stored.Add(amount)
			createdAt = storedAt
		}
	}

	err = r.client.HSet(ctx, key, map[string]interface{}{
		"seller_id":    sellerID,
		"total_amount": total.String(),
		"created_at":   createdAt.Format(time.RFC3339),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store daily withdrawal total: %w", err)
	}

	// Set expiration for end of day
	midnight := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)
	err = r.client.ExpireAt(ctx, key, midnight).Err()
	if err != nil {
		return fmt.Errorf("failed to set expiration: %w", err)
	}

	return nil
}

// DailyWithdrawalTotal returns today's accumulated withdrawal volume for the
// seller, zero when nothing has been recorded today.
func (r *RedisService) DailyWithdrawalTotal(ctx context.Context, sellerID int64) (decimal.Decimal, error) {
	key := withdrawalVolumeKey(sellerID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get daily withdrawals: %w", err)
	}

	if len(fields) == 0 {
		return decimal.Zero, nil
	}

	createdAt, err := time.Parse(time.RFC3339, fields["created_at"])
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse created_at: %w", err)
	}

	// Entry left over from a previous day counts as nothing
	if !isSameDay(createdAt, time.Now()) {
		return decimal.Zero, nil
	}

	total, err := decimal.NewFromString(fields["total_amount"])
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse total_amount: %w", err)
	}

	return total, nil
}
