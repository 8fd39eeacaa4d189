package store

import "log/slog"

// uiState holds the volatile interface flags.
type uiState struct {
	VaultDrawerOpen bool `json:"vault_drawer_open"`
	MenuOpen        bool `json:"menu_open"`
}

// UIStore holds ephemeral interface flags. Nothing here is persisted.
type UIStore struct {
	store *Persisted[uiState]
}

// NewUIStore creates a volatile UI store.
func NewUIStore(logger *slog.Logger) *UIStore {
	return &UIStore{store: New(Options[uiState]{
		Key:     "solenne-ui",
		Storage: nil, // volatile
		Initial: func() uiState { return uiState{} },
		Logger:  logger,
	})}
}

// OpenVaultDrawer opens the vault drawer.
func (u *UIStore) OpenVaultDrawer() {
	u.store.Update(func(s uiState) uiState { s.VaultDrawerOpen = true; return s })
}

// CloseVaultDrawer closes the vault drawer.
func (u *UIStore) CloseVaultDrawer() {
	u.store.Update(func(s uiState) uiState { s.VaultDrawerOpen = false; return s })
}

// OpenMenu opens the navigation menu.
func (u *UIStore) OpenMenu() {
	u.store.Update(func(s uiState) uiState { s.MenuOpen = true; return s })
}

// CloseMenu closes the navigation menu.
func (u *UIStore) CloseMenu() {
	u.store.Update(func(s uiState) uiState { s.MenuOpen = false; return s })
}

// VaultDrawerOpen reports the drawer flag.
func (u *UIStore) VaultDrawerOpen() bool { return u.store.Get().VaultDrawerOpen }

// MenuOpen reports the menu flag.
func (u *UIStore) MenuOpen() bool { return u.store.Get().MenuOpen }
