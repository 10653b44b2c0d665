package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/cartsync/internal/cart"
	"github.com/roach88/cartsync/internal/cartstore"
)

// TraceEvent is one recorded side effect: a snapshot write, a snapshot
// delete, a remote fetch, a remote push, or a remote delete. Seq orders
// events across the whole run.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Op      string `json:"op"`
	Items   int    `json:"items,omitempty"`
	Version int64  `json:"version,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Trace event operation names.
const (
	EventSnapshotSave   = "snapshot_save"
	EventSnapshotDelete = "snapshot_delete"
	EventFetch          = "fetch"
	EventPush           = "push"
	EventRemoteDelete   = "remote_delete"
)

// Result holds everything a scenario run produced.
type Result struct {
	Events      []TraceEvent
	Count       int
	Total       decimal.Decimal
	Pushes      int
	RemoteItems int
}

// Run executes a scenario against fresh in-memory state and returns the
// recorded trace and final state.
func Run(s *Scenario) (*Result, error) {
	rec := &recorder{}
	local := &memorySnapshots{rec: rec}
	rc := &memoryRemote{rec: rec}
	creds := &memoryCreds{}

	if s.Token != "" {
		creds.set(s.Token)
	}
	remoteItems, err := buildItems(s.Remote)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	rc.items = remoteItems

	// The window outlives the scenario, so pushes happen only at the
	// explicit flush points a scenario names. Sequential push tokens
	// keep the trace byte-stable.
	store := cartstore.New(local, rc, creds,
		cartstore.WithDebounceWindow(time.Hour),
		cartstore.WithPushTokenGenerator(&seqTokens{}),
		cartstore.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	defer store.Close()

	ctx := context.Background()
	store.Init(ctx)

	for i, step := range s.Steps {
		if err := applyStep(ctx, store, creds, step); err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
	}

	return &Result{
		Events:      rec.events(),
		Count:       store.Count(),
		Total:       store.Total(),
		Pushes:      rec.count(EventPush),
		RemoteItems: rc.len(),
	}, nil
}

// applyStep executes one scenario step against the store.
func applyStep(ctx context.Context, store *cartstore.Store, creds *memoryCreds, step Step) error {
	switch step.Op {
	case OpAdd:
		item, err := buildItem(ItemSpec{
			ProductID: step.ProductID,
			Name:      step.Name,
			Price:     step.Price,
			SalePrice: step.SalePrice,
		})
		if err != nil {
			return err
		}
		store.AddItem(ctx, item, step.Qty)
	case OpRemove:
		store.RemoveItem(ctx, step.ProductID)
	case OpSetQty:
		store.UpdateQuantity(ctx, step.ProductID, step.Qty)
	case OpClear:
		store.ClearCart(ctx)
	case OpFlush:
		store.Flush(ctx)
	case OpPull:
		store.ReloadFromRemote(ctx)
	case OpLogin:
		// The login flow stores the credential, then reconciles.
		creds.set(step.Token)
		store.ReloadFromRemote(ctx)
	case OpLogout:
		creds.clear()
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func buildItem(spec ItemSpec) (cart.LineItem, error) {
	price, err := decimal.NewFromString(spec.Price)
	if err != nil {
		return cart.LineItem{}, fmt.Errorf("product %s: invalid price %q: %w", spec.ProductID, spec.Price, err)
	}
	item := cart.LineItem{
		ProductID: spec.ProductID,
		Name:      spec.Name,
		UnitPrice: price,
	}
	if spec.SalePrice != "" {
		sale, err := decimal.NewFromString(spec.SalePrice)
		if err != nil {
			return cart.LineItem{}, fmt.Errorf("product %s: invalid sale_price %q: %w", spec.ProductID, spec.SalePrice, err)
		}
		item.SalePrice = sale
	}
	return item, nil
}

func buildItems(specs []ItemSpec) (cart.Items, error) {
	items := make(cart.Items, 0, len(specs))
	for _, spec := range specs {
		item, err := buildItem(spec)
		if err != nil {
			return nil, err
		}
		item.Quantity = max(1, spec.Qty)
		items = append(items, item)
	}
	return items, nil
}

// recorder collects trace events. Safe for concurrent use; a debounced
// push would append from the timer goroutine.
type recorder struct {
	mu  sync.Mutex
	evs []TraceEvent
}

func (r *recorder) add(ev TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = len(r.evs) + 1
	r.evs = append(r.evs, ev)
}

func (r *recorder) events() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.evs))
	copy(out, r.evs)
	return out
}

func (r *recorder) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.evs {
		if ev.Op == op {
			n++
		}
	}
	return n
}

// memorySnapshots implements cartstore.SnapshotStore in memory.
// Loads are not traced; only writes and deletes are side effects.
type memorySnapshots struct {
	mu      sync.Mutex
	items   cart.Items
	version int64
	ok      bool
	rec     *recorder
}

func (m *memorySnapshots) SaveSnapshot(ctx context.Context, items cart.Items, version int64) error {
	m.mu.Lock()
	m.items = items.Clone()
	m.version = version
	m.ok = true
	m.mu.Unlock()

	m.rec.add(TraceEvent{Op: EventSnapshotSave, Items: len(items), Version: version})
	return nil
}

func (m *memorySnapshots) LoadSnapshot(ctx context.Context) (cart.Items, int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, 0, false, nil
	}
	return m.items.Clone(), m.version, true, nil
}

func (m *memorySnapshots) DeleteSnapshot(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.version = 0
	m.ok = false
	m.mu.Unlock()

	m.rec.add(TraceEvent{Op: EventSnapshotDelete})
	return nil
}

// memoryRemote implements cartstore.RemoteCart in memory.
type memoryRemote struct {
	mu    sync.Mutex
	items cart.Items
	rec   *recorder
}

func (m *memoryRemote) Fetch(ctx context.Context) (cart.Items, error) {
	m.mu.Lock()
	items := m.items.Clone()
	m.mu.Unlock()

	m.rec.add(TraceEvent{Op: EventFetch, Items: len(items)})
	return items, nil
}

func (m *memoryRemote) Replace(ctx context.Context, items cart.Items, version int64, pushToken string) error {
	m.mu.Lock()
	m.items = items.Clone()
	m.mu.Unlock()

	m.rec.add(TraceEvent{Op: EventPush, Items: len(items), Version: version, Token: pushToken})
	return nil
}

func (m *memoryRemote) Delete(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()

	m.rec.add(TraceEvent{Op: EventRemoteDelete})
	return nil
}

func (m *memoryRemote) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// memoryCreds implements cartstore.CredentialSource in memory.
type memoryCreds struct {
	mu    sync.Mutex
	token string
}

func (m *memoryCreds) Token(ctx context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memoryCreds) set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *memoryCreds) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// seqTokens generates push-1, push-2, ... for byte-stable traces.
type seqTokens struct {
	mu sync.Mutex
	n  int
}

func (g *seqTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("push-%d", g.n)
}
