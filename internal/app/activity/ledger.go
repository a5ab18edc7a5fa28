// Package activity maintains the "days active" streak: the count of
// distinct calendar days a user has interacted on at least once.
package activity

import (
	"context"
	"time"

	"github.com/serenitylabs/serenity-agent/internal/domain"
	"github.com/serenitylabs/serenity-agent/internal/observability"
)

// Ledger increments a profile's streak at most once per UTC calendar
// day. The read-then-conditionally-write runs inside the store's
// transaction primitive, so concurrent turns never double-count a day.
type Ledger struct {
	store domain.ProfileStore
	now   func() time.Time
}

func NewLedger(store domain.ProfileStore) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
	}
}

// RecordActivity bumps the streak if the profile has not been active
// today. A transaction failure is logged and reported as "no update";
// a missed increment is acceptable, a crash is not.
func (l *Ledger) RecordActivity(ctx context.Context, id domain.SessionID) bool {
	updated := false

	err := l.store.RunProfileTransaction(ctx, id, func(tx domain.ProfileTxn) error {
		profile, err := tx.Profile()
		if err != nil {
			return err
		}

		now := l.now()
		if profile.LastActive != nil && sameUTCDay(*profile.LastActive, now) {
			return nil
		}

		if err := tx.Update(domain.ProfileUpdate{
			IncrementDaysActive: 1,
			LastActive:          &now,
		}); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		observability.WithSession(ctx, string(id)).Error("daily activity transaction failed", "error", err)
		return false
	}

	return updated
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
