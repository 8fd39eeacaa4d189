package store

import "log/slog"

// IngressStorageKey is the session-tier namespace key for the boot flag.
const IngressStorageKey = "solenne-ingress-v1"

// ingressState is the persisted shape of the boot flag.
type ingressState struct {
	IsBooted bool `json:"is_booted"`
}

// IngressStore gates the one-time-per-session boot animation. The flag is
// persisted only for the lifetime of the session tier (a browser tab in the
// original); once true it is never reset by this system.
type IngressStore struct {
	store *Persisted[ingressState]
}

// NewIngressStore creates the boot-gating store. Pass a session-lifetime
// tier (MemoryStorage) so the flag clears when the session ends.
func NewIngressStore(storage Storage, logger *slog.Logger) *IngressStore {
	return &IngressStore{store: New(Options[ingressState]{
		Key:     IngressStorageKey,
		Storage: storage,
		Initial: func() ingressState { return ingressState{} },
		Logger:  logger,
	})}
}

// IsBooted reports whether the boot sequence already ran this session.
func (i *IngressStore) IsBooted() bool { return i.store.Get().IsBooted }

// MarkBooted records that the boot sequence ran. It only ever sets the flag.
func (i *IngressStore) MarkBooted() {
	i.store.Update(func(ingressState) ingressState {
		return ingressState{IsBooted: true}
	})
}
