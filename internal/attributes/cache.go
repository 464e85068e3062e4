package attributes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/clbtools/clbtools/internal/sheets"
)

// DefaultTTL is how long a loaded attribute snapshot stays fresh.
const DefaultTTL = 5 * time.Minute

const snapshotKey = "attributes"

// ErrCacheClosed is returned by Get and Refresh after Close.
var ErrCacheClosed = errors.New("attributes: cache closed")

// Loader reads every player from the backing store.
type Loader func(ctx context.Context) ([]Player, error)

// SheetLoader loads players from an attribute sheet.
func SheetLoader(store sheets.Store, sheet string) Loader {
	return func(context.Context) ([]Player, error) {
		rows, err := store.Rows(sheet)
		if err != nil {
			return nil, err
		}
		return ParseRows(rows), nil
	}
}

// Snapshot is one load of the attribute sheet.
type Snapshot struct {
	byName   map[string]Player
	names    []string
	LoadedAt time.Time
}

func newSnapshot(players []Player, now time.Time) *Snapshot {
	s := &Snapshot{byName: make(map[string]Player, len(players)), LoadedAt: now}
	for _, p := range players {
		if _, dup := s.byName[p.Name]; dup {
			continue
		}
		s.byName[p.Name] = p
		s.names = append(s.names, p.Name)
	}
	sort.Strings(s.names)
	return s
}

// Cache holds the latest snapshot until its TTL runs out or it is
// invalidated. Loads are serialised, so readers never see a half-built
// snapshot. A Cache is owned by one App and closed with it.
type Cache struct {
	load Loader

	mu     sync.Mutex
	lru    *expirable.LRU[string, *Snapshot]
	closed bool
}

func NewCache(load Loader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		load: load,
		lru:  expirable.NewLRU[string, *Snapshot](1, nil, ttl),
	}
}

// Get returns the cached snapshot, loading it when missing or expired.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}
	if s, ok := c.lru.Get(snapshotKey); ok {
		return s, nil
	}
	return c.refreshLocked(ctx)
}

// Refresh reloads regardless of age.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrCacheClosed
	}
	return c.refreshLocked(ctx)
}

// Invalidate drops the snapshot; the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Close drops the snapshot and refuses further loads. golang-lru v2.0.7 has
// no way to stop the expiry goroutine of an expirable LRU, so it keeps
// ticking over the empty list until the process exits.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.closed = true
	return nil
}

func (c *Cache) refreshLocked(ctx context.Context) (*Snapshot, error) {
	if c.load == nil {
		return nil, errors.New("attributes: cache has no loader")
	}
	players, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	s := newSnapshot(players, time.Now())
	c.lru.Add(snapshotKey, s)
	return s, nil
}

// PlayerList returns every player name, sorted.
func (s *Snapshot) PlayerList() []string {
	return append([]string(nil), s.names...)
}

// Player looks up one player by name.
func (s *Snapshot) Player(name string) (Player, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Players returns the requested players in request order. Unknown names are
// skipped.
func (s *Snapshot) Players(names []string) []Player {
	out := make([]Player, 0, len(names))
	for _, n := range names {
		if p, ok := s.byName[n]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Views renders the requested players, with averages when asked.
func (s *Snapshot) Views(names []string, withAverages bool) []View {
	players := s.Players(names)
	out := make([]View, 0, len(players))
	for _, p := range players {
		if withAverages {
			out = append(out, p.ViewWithAverages())
		} else {
			out = append(out, p.View())
		}
	}
	return out
}
