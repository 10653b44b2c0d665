package cartstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/cartsync/internal/cart"
)

// SnapshotStore is the local durable persistence port.
// Implemented by localstore.Store.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, items cart.Items, version int64) error
	LoadSnapshot(ctx context.Context) (items cart.Items, version int64, ok bool, err error)
	DeleteSnapshot(ctx context.Context) error
}

// RemoteCart is the Remote Cart Service port.
// Implemented by remote.Client.
type RemoteCart interface {
	Fetch(ctx context.Context) (cart.Items, error)
	Replace(ctx context.Context, items cart.Items, version int64, pushToken string) error
	Delete(ctx context.Context) error
}

// CredentialSource answers whether the session is authenticated.
// Implemented by localstore.Store; the credential is owned by the
// authentication flow.
type CredentialSource interface {
	Token(ctx context.Context) (string, bool)
}

// Store is the cart store. Construct one per session at bootstrap with New,
// hydrate it with Init, and hand it by reference to every consumer.
//
// Thread-safety model:
//   - all exported methods are safe from any goroutine
//   - each state mutation is a single step under the mutex, so two
//     operations can never interleave mid-mutation
//   - network calls happen outside the mutex and never block mutations
type Store struct {
	mu          sync.Mutex
	items       cart.Items
	initialized bool

	local  SnapshotStore
	remote RemoteCart
	creds  CredentialSource

	clock    *Clock
	debounce *Debouncer
	tokens   PushTokenGenerator
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDebounceWindow overrides the remote-push quiescence window.
// Tests use short windows; production uses DefaultDebounceWindow.
func WithDebounceWindow(window time.Duration) Option {
	return func(s *Store) {
		s.debounce = NewDebouncer(window)
	}
}

// WithPushTokenGenerator overrides the push token generator.
func WithPushTokenGenerator(g PushTokenGenerator) Option {
	return func(s *Store) {
		s.tokens = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a cart store wired to its two external copies.
// The store starts empty and uninitialized; call Init to hydrate.
func New(local SnapshotStore, rc RemoteCart, creds CredentialSource, opts ...Option) *Store {
	s := &Store{
		items:    cart.Items{},
		local:    local,
		remote:   rc,
		creds:    creds,
		clock:    NewClock(),
		debounce: NewDebouncer(DefaultDebounceWindow),
		tokens:   UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init hydrates the store. Runs once per store lifetime; callers that must
// not block (a UI thread) run it on its own goroutine - mutations issued
// before Init completes are applied in memory but skip the persistence
// pipeline, so a not-yet-loaded remote cart is never overwritten with a
// half-empty initial state.
//
// Hydration order:
//  1. With a credential: fetch the remote cart. A non-empty result is
//     adopted, persisted locally, and wins outright.
//  2. Otherwise adopt the local snapshot, if present and parseable.
//  3. With a credential and a non-empty locally-sourced cart, push it
//     upstream once (a pre-existing guest cart joining a freshly
//     authenticated account).
//
// Every failure along the way degrades to a smaller source of truth and a
// log line; Init itself cannot fail.
func (s *Store) Init(ctx context.Context) {
	localItems, version, haveLocal, err := s.local.LoadSnapshot(ctx)
	if err != nil {
		// Corrupt or unreadable snapshot reads as an empty cart.
		s.logger.Warn("init: local snapshot unreadable, treating as empty", "error", err)
		haveLocal = false
	}
	if version > 0 {
		// Restore the push-version counter before anything is stamped.
		s.mu.Lock()
		s.clock = NewClockAt(version)
		s.mu.Unlock()
	}

	_, authed := s.creds.Token(ctx)

	if authed {
		remoteItems, err := s.remote.Fetch(ctx)
		if err != nil {
			s.logger.Warn("init: remote hydrate failed, falling back to local", "error", err)
		} else if len(remoteItems) > 0 {
			s.mu.Lock()
			s.items = remoteItems
			s.initialized = true
			v := s.clock.Next()
			s.mu.Unlock()

			if err := s.local.SaveSnapshot(ctx, remoteItems, v); err != nil {
				s.logger.Error("init: persisting remote cart failed", "error", err)
			}
			s.logger.Info("init: hydrated from remote", "items", len(remoteItems))
			return
		}
	}

	s.mu.Lock()
	if haveLocal {
		s.items = localItems
	}
	s.initialized = true
	s.mu.Unlock()

	if haveLocal {
		s.logger.Info("init: hydrated from local snapshot", "items", len(localItems))
	} else {
		s.logger.Info("init: starting with empty cart")
	}

	// Reconcile a non-empty pre-existing local cart into the account.
	if authed && haveLocal && len(localItems) > 0 {
		s.push(ctx, "init reconciliation")
	}
}

// AddItem merges a product into the cart: an existing line item's quantity
// grows by qty, a new product is appended. Cannot fail; stock validation is
// the remote system's concern.
func (s *Store) AddItem(ctx context.Context, item cart.LineItem, qty int) {
	s.mu.Lock()
	s.items = cart.Add(s.items, item, qty)
	s.mu.Unlock()

	s.persistPipeline(ctx)
}

// RemoveItem drops the line item with the given product ID.
// Removing an absent product is a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	s.items = cart.Remove(s.items, productID)
	s.mu.Unlock()

	s.persistPipeline(ctx)
}

// UpdateQuantity sets the matching line item's quantity to max(1, qty).
// It never removes a line; no-op when the product is absent.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) {
	s.mu.Lock()
	s.items = cart.SetQuantity(s.items, productID, qty)
	s.mu.Unlock()

	s.persistPipeline(ctx)
}

// ClearCart empties the cart. Unlike the other mutations its side effects
// are synchronous, not debounced: the pending push (if any) is cancelled so
// stale state cannot resurrect the remote cart, the local snapshot is
// removed, and an authenticated session issues an immediate best-effort
// remote delete. Failures are logged, never surfaced, and never roll back
// the local clear.
func (s *Store) ClearCart(ctx context.Context) {
	s.debounce.Cancel()

	s.mu.Lock()
	s.items = cart.Items{}
	s.mu.Unlock()

	if err := s.local.DeleteSnapshot(ctx); err != nil {
		s.logger.Error("clear: removing local snapshot failed", "error", err)
	}

	if _, authed := s.creds.Token(ctx); !authed {
		return
	}
	if err := s.remote.Delete(ctx); err != nil {
		s.logger.Error("clear: remote delete failed, remote copy may be stale", "error", err)
	}
}

// ReloadFromRemote re-hydrates from the Remote Cart Service. Meant to be
// invoked after a successful login; a no-op without a credential.
//
// A non-empty remote cart fully replaces the in-memory items. An empty
// remote cart with non-empty in-memory state reconciles upstream once
// instead, the same way Init treats a pre-existing local cart - without
// this, items added just before login would be silently discarded.
func (s *Store) ReloadFromRemote(ctx context.Context) {
	if _, authed := s.creds.Token(ctx); !authed {
		return
	}

	items, err := s.remote.Fetch(ctx)
	if err != nil {
		s.logger.Warn("reload: remote fetch failed, keeping local state", "error", err)
		return
	}

	if len(items) > 0 {
		s.mu.Lock()
		s.items = items
		v := s.clock.Next()
		s.mu.Unlock()

		if err := s.local.SaveSnapshot(ctx, items, v); err != nil {
			s.logger.Error("reload: persisting remote cart failed", "error", err)
		}
		s.logger.Info("reload: adopted remote cart", "items", len(items))
		return
	}

	s.mu.Lock()
	n := len(s.items)
	s.mu.Unlock()
	if n > 0 {
		s.push(ctx, "login reconciliation")
	}
}

// Items returns a copy of the current line items for rendering.
func (s *Store) Items() cart.Items {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Total returns the cart total: effective unit price x quantity, summed.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Total(s.items)
}

// Count returns the sum of quantities across all line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Count(s.items)
}

// Flush cancels any pending debounced push and pushes the current state
// immediately. Used on graceful shutdown and by short-lived processes that
// would otherwise exit inside the quiescence window. Skipped silently for
// unauthenticated sessions, like any push.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	ready := s.initialized
	s.mu.Unlock()
	if !ready {
		return
	}

	s.debounce.Cancel()
	s.push(ctx, "flush")
}

// Close cancels any pending debounced push. It does not flush.
func (s *Store) Close() {
	s.debounce.Cancel()
}

// persistPipeline runs after every state-changing operation:
//  1. synchronously persist the snapshot locally, stamped with the next
//     version - immediate and unconditional, authenticated or not
//  2. schedule the debounced remote push; each state change restarts the
//     timer, so only the latest state is ever sent, once the cart has been
//     quiet for the full window
//
// Gated on initialization so an empty starting state can never clobber a
// not-yet-fetched remote cart.
func (s *Store) persistPipeline(ctx context.Context) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}
	items := s.items.Clone()
	version := s.clock.Next()
	s.mu.Unlock()

	if err := s.local.SaveSnapshot(ctx, items, version); err != nil {
		s.logger.Error("persist: local snapshot write failed", "error", err)
	}

	s.debounce.Schedule(func() {
		// The timer outlives the mutation's request context.
		s.push(context.Background(), "debounced push")
	})
}

// push sends the current state to the Remote Cart Service. Skipped silently
// without a credential. Failures are logged and never retried beyond the
// next natural state change.
func (s *Store) push(ctx context.Context, reason string) {
	if _, authed := s.creds.Token(ctx); !authed {
		s.logger.Debug("push skipped: signed out", "reason", reason)
		return
	}

	s.mu.Lock()
	items := s.items.Clone()
	version := s.clock.Current()
	s.mu.Unlock()

	pushToken := s.tokens.Generate()
	if err := s.remote.Replace(ctx, items, version, pushToken); err != nil {
		s.logger.Error("push failed, remote copy may be stale",
			"reason", reason,
			"version", version,
			"push_token", pushToken,
			"error", err)
		return
	}

	s.logger.Debug("push ok",
		"reason", reason,
		"version", version,
		"push_token", pushToken,
		"items", len(items))
}
