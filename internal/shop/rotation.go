// Package shop rotates a small daily selection out of the fixed catalog
// and enforces the once-per-day-per-item purchase rule.
package shop

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hodan/capyd/internal/model"
	"github.com/hodan/capyd/internal/store"
)

const dailyItemCount = 5

var (
	ErrNotOffered        = errors.New("item not offered today")
	ErrAlreadyPurchased  = errors.New("item already purchased today")
	ErrInsufficientFunds = errors.New("not enough coins")
)

// Wallet is the slice of the accountability store the shop needs: a coin
// debit that can refuse, and a care meter bump.
type Wallet interface {
	SpendCoins(amount int) bool
	AdjustCare(kind model.StatKind, delta int)
}

// DayKey formats a time as the local calendar-day key used for rotation
// and reset bookkeeping.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ItemsForDay deterministically picks the day's offering: the catalog
// ranked by a stable hash of "dayKey|itemID", first five. Every client
// computes the same rotation with no coordination.
func ItemsForDay(dayKey string) []model.ShopItem {
	ranked := append([]model.ShopItem(nil), Catalog...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return stableHash(dayKey+"|"+ranked[i].ID) < stableHash(dayKey+"|"+ranked[j].ID)
	})
	if len(ranked) > dailyItemCount {
		ranked = ranked[:dailyItemCount]
	}
	return ranked
}

// Fixed FNV-1a-style mixing constants. The offset basis matches the app
// clients, so every platform ranks the catalog identically; do not swap in
// hash/fnv, whose basis differs.
const (
	hashOffset uint64 = 1469598103934665603
	hashPrime  uint64 = 1099511628211
)

// stableHash XOR-then-multiplies each byte into the running hash.
func stableHash(s string) uint64 {
	h := hashOffset
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= hashPrime
	}
	return h
}

// Rotation tracks the current day's offering and purchases, persisting
// both so a restart lands on the same shop day.
type Rotation struct {
	mu        sync.Mutex
	states    *store.StateStore
	wallet    Wallet
	logger    *slog.Logger
	now       func() time.Time
	dayKey    string
	purchased map[string]struct{}
	items     []model.ShopItem
}

func NewRotation(states *store.StateStore, wallet Wallet, logger *slog.Logger) *Rotation {
	r := &Rotation{
		states:    states,
		wallet:    wallet,
		logger:    logger,
		now:       time.Now,
		purchased: make(map[string]struct{}),
	}
	r.load()
	r.refresh()
	return r
}

func (r *Rotation) load() {
	data, err := r.states.Get(store.ShopStateKey)
	if err != nil {
		r.logger.Error("load shop state", "error", err)
		return
	}
	if data == nil {
		return
	}
	var state model.ShopState
	if err := json.Unmarshal(data, &state); err != nil {
		r.logger.Error("decode shop state, starting fresh", "error", err)
		return
	}
	r.dayKey = state.LastDayKey
	for _, id := range state.PurchasedIDs {
		r.purchased[id] = struct{}{}
	}
}

// save must be called with r.mu held.
func (r *Rotation) save() {
	ids := make([]string, 0, len(r.purchased))
	for id := range r.purchased {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(model.ShopState{LastDayKey: r.dayKey, PurchasedIDs: ids})
	if err != nil {
		r.logger.Error("encode shop state", "error", err)
		return
	}
	if err := r.states.Set(store.ShopStateKey, data); err != nil {
		r.logger.Error("save shop state", "error", err)
	}
}

// refresh must be called with r.mu held (or before the Rotation is shared).
// On a day-key change it clears the purchase set before recomputing the
// day's items.
func (r *Rotation) refresh() {
	todayKey := DayKey(r.now())
	if todayKey == r.dayKey && r.items != nil {
		return
	}
	if todayKey != r.dayKey {
		r.dayKey = todayKey
		r.purchased = make(map[string]struct{})
		r.save()
	}
	r.items = ItemsForDay(todayKey)
}

// Today returns the current day key, the day's offering, and the ids
// already purchased today.
func (r *Rotation) Today() (string, []model.ShopItem, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh()

	items := append([]model.ShopItem(nil), r.items...)
	ids := make([]string, 0, len(r.purchased))
	for id := range r.purchased {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return r.dayKey, items, ids
}

// Buy purchases one of today's items: at most once per day per item, and
// only if the wallet covers the cost. On success the item's care stat
// reward is applied.
func (r *Rotation) Buy(itemID string) (*model.ShopItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh()

	var item *model.ShopItem
	for i := range r.items {
		if r.items[i].ID == itemID {
			item = &r.items[i]
			break
		}
	}
	if item == nil {
		return nil, ErrNotOffered
	}
	if _, ok := r.purchased[itemID]; ok {
		return nil, ErrAlreadyPurchased
	}
	if !r.wallet.SpendCoins(item.Cost) {
		return nil, ErrInsufficientFunds
	}

	r.purchased[itemID] = struct{}{}
	r.save()
	if item.StatReward != nil {
		r.wallet.AdjustCare(*item.StatReward, 1)
	}

	out := *item
	return &out, nil
}
