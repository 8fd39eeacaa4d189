package store

import (
	"log/slog"

	"github.com/solenne/boutique/internal/domain/model"
)

// VaultStorageKey is the durable namespace key for the vault selection.
// The -v2 suffix invalidated the pre-rework persisted shape; bump it again
// on the next schema change.
const VaultStorageKey = "solenne-vault-v2"

// vaultState is the persisted shape of the selection.
type vaultState struct {
	Items []model.SelectionItem `json:"items"`
}

// VaultStore holds the customer's persisted selection ("vault").
// Entries are a set keyed by item ID: re-adding an existing ID is a no-op.
type VaultStore struct {
	store *Persisted[vaultState]
}

// NewVaultStore creates a vault backed by the given storage tier.
// Pass a durable tier so the selection survives reloads.
func NewVaultStore(storage Storage, logger *slog.Logger) *VaultStore {
	return &VaultStore{store: New(Options[vaultState]{
		Key:     VaultStorageKey,
		Storage: storage,
		Initial: func() vaultState { return vaultState{Items: []model.SelectionItem{}} },
		Logger:  logger,
	})}
}

// AddItem inserts item unless an entry with the same ID already exists.
func (v *VaultStore) AddItem(item model.SelectionItem) {
	v.store.Update(func(s vaultState) vaultState {
		for _, existing := range s.Items {
			if existing.ID == item.ID {
				return s
			}
		}
		items := make([]model.SelectionItem, len(s.Items), len(s.Items)+1)
		copy(items, s.Items)
		return vaultState{Items: append(items, item)}
	})
}

// RemoveItem deletes the entry matching id; absent IDs are a no-op.
func (v *VaultStore) RemoveItem(id string) {
	v.store.Update(func(s vaultState) vaultState {
		items := make([]model.SelectionItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID != id {
				items = append(items, item)
			}
		}
		return vaultState{Items: items}
	})
}

// ClearVault empties the selection.
func (v *VaultStore) ClearVault() {
	v.store.Update(func(vaultState) vaultState {
		return vaultState{Items: []model.SelectionItem{}}
	})
}

// Items returns a copy of the current selection.
func (v *VaultStore) Items() []model.SelectionItem {
	s := v.store.Get()
	items := make([]model.SelectionItem, len(s.Items))
	copy(items, s.Items)
	return items
}

// GetTotalPrice returns the sum of prices across the selection; 0 when empty.
func (v *VaultStore) GetTotalPrice() float64 {
	var total float64
	for _, item := range v.store.Get().Items {
		total += item.Price
	}
	return total
}

// Subscribe registers fn for selection changes and returns an unsubscribe
// function the owner must call on teardown.
func (v *VaultStore) Subscribe(fn func(items []model.SelectionItem)) func() {
	return v.store.Subscribe(func(s vaultState) {
		items := make([]model.SelectionItem, len(s.Items))
		copy(items, s.Items)
		fn(items)
	})
}
