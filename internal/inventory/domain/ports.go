package domain

import (
	"context"
)

// LookupCache holds point-of-sale lookup results. Entries carry stock
// figures, so every committed recalculation must call Invalidate.
type LookupCache interface {
	Get(ctx context.Context, query string, limit int) ([]ItemLookup, bool)
	Set(ctx context.Context, query string, limit int, rows []ItemLookup)
	Invalidate(ctx context.Context)
}

// ItemLocker serialises work on one item across processes. The returned
// func releases the lock.
type ItemLocker interface {
	LockItem(ctx context.Context, scope string, itemID uint) (func(), error)
}

// NopLookupCache never caches
type NopLookupCache struct{}

func (NopLookupCache) Get(context.Context, string, int) ([]ItemLookup, bool) { return nil, false }
func (NopLookupCache) Set(context.Context, string, int, []ItemLookup)        {}
func (NopLookupCache) Invalidate(context.Context)                            {}

// NopItemLocker relies on database constraints alone
type NopItemLocker struct{}

func (NopItemLocker) LockItem(context.Context, string, uint) (func(), error) {
	return func() {}, nil
}

// NopSaleHook discards sale events
type NopSaleHook struct{}

func (NopSaleHook) AfterSaleCommitted(context.Context, SaleCommitted) {}
