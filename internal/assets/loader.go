package assets

import (
	"path"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Asset is an external resource a component needs before it can activate.
type Asset struct {
	URL string `json:"url"`
}

// Key is the canonical identity of an asset: the NFC-normalised, cleaned
// URL. Two spellings of the same path load once.
func Key(a Asset) string {
	u := strings.TrimSpace(norm.NFC.String(a.URL))
	if u == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(u, "\\", "/"))
}

// Drawable is the renderer-facing handle of a loaded asset.
type Drawable struct {
	Key    string
	Width  int
	Height int
	Handle any // backend specific, e.g. a decoded image
}

// Result is what a Backend reports for one batch.
type Result struct {
	Drawables map[string]Drawable
	Failed    map[string]error
}

// Backend fetches a batch of assets. Load must return promptly and call done
// exactly once, from any goroutine.
type Backend interface {
	Load(batch []Asset, done func(Result))
}

type loadState uint8

const (
	stateUnknown loadState = iota
	statePending
	stateLoaded
	stateFailed
)

type waiter struct {
	keys  []string
	ready func()
}

type completion struct {
	keys   []string
	result Result
}

// Loader deduplicates asset requests and feeds them to a Backend one batch at
// a time. Bookkeeping is touched only from the game loop goroutine; backend
// completions are handed over through a channel drained by Poll.
type Loader struct {
	backend Backend
	log     *zap.Logger

	states    map[string]loadState
	drawables map[string]Drawable

	pending     []Asset
	pendingKeys map[string]struct{}
	inFlight    bool

	waiters []*waiter
	done    chan completion
	batches int
}

func NewLoader(backend Backend, log *zap.Logger) *Loader {
	return &Loader{
		backend:     backend,
		log:         log,
		states:      make(map[string]loadState),
		drawables:   make(map[string]Drawable),
		pendingKeys: make(map[string]struct{}),
		done:        make(chan completion, 1),
	}
}

// Loaded reports whether the asset with key has finished loading.
func (l *Loader) Loaded(key string) bool { return l.states[key] == stateLoaded }

// Drawable resolves a loaded asset key to its handle.
func (l *Loader) Drawable(key string) (Drawable, bool) {
	d, ok := l.drawables[key]
	return d, ok
}

// InFlight reports whether a batch is currently being loaded.
func (l *Loader) InFlight() bool { return l.inFlight }

// Batches returns how many batches have been dispatched so far.
func (l *Loader) Batches() int { return l.batches }

// Waiting returns how many requests are still waiting on assets.
func (l *Loader) Waiting() int { return len(l.waiters) }

func (l *Loader) allLoaded(keys []string) bool {
	for _, k := range keys {
		if l.states[k] != stateLoaded {
			return false
		}
	}
	return true
}

// Require calls ready once every asset in list is loaded. An empty or fully
// loaded list resolves immediately. There is no cancellation: a caller that
// no longer cares must make ready harmless.
func (l *Loader) Require(list []Asset, ready func()) {
	byKey := make(map[string]Asset, len(list))
	keys := make([]string, 0, len(list))
	for _, a := range list {
		k := Key(a)
		if k == "" {
			continue
		}
		if _, dup := byKey[k]; dup {
			continue
		}
		byKey[k] = a
		keys = append(keys, k)
	}

	if l.allLoaded(keys) {
		ready()
		return
	}

	l.waiters = append(l.waiters, &waiter{keys: keys, ready: ready})
	for _, k := range keys {
		switch l.states[k] {
		case stateUnknown, stateFailed:
			if _, queued := l.pendingKeys[k]; !queued {
				l.pendingKeys[k] = struct{}{}
				l.pending = append(l.pending, byKey[k])
			}
		}
	}
	l.dispatch()
}

// dispatch sends everything requested since the last dispatch as one batch,
// unless a batch is already in flight.
func (l *Loader) dispatch() {
	if len(l.pending) == 0 {
		return
	}
	for _, a := range l.pending {
		k := Key(a)
		if l.states[k] == stateLoaded {
			l.log.Warn("probably a bug: asset queued for loading is already loaded", zap.String("asset", k))
			continue
		}
		l.states[k] = statePending
	}
	if l.inFlight {
		return
	}

	batch := l.pending
	keys := make([]string, 0, len(batch))
	for _, a := range batch {
		keys = append(keys, Key(a))
	}
	l.pending = nil
	l.pendingKeys = make(map[string]struct{})
	l.inFlight = true
	l.batches++

	l.log.Debug("dispatching asset batch", zap.Int("batch", l.batches), zap.Strings("assets", keys))
	l.backend.Load(batch, func(r Result) {
		l.done <- completion{keys: keys, result: r}
	})
}

// Poll applies any finished batch. Call once per tick from the game loop.
// It returns the number of batches applied.
func (l *Loader) Poll() int {
	n := 0
	for {
		select {
		case c := <-l.done:
			l.finish(c)
			n++
		default:
			return n
		}
	}
}

func (l *Loader) finish(c completion) {
	l.inFlight = false

	for _, k := range c.keys {
		if err, failed := c.result.Failed[k]; failed {
			l.states[k] = stateFailed
			l.log.Error("asset failed to load", zap.String("asset", k), zap.Error(err))
			continue
		}
		l.states[k] = stateLoaded
		if d, ok := c.result.Drawables[k]; ok {
			l.drawables[k] = d
		}
	}

	// All bookkeeping is done before any waiter runs; a waiter may itself
	// call Require.
	var ready []*waiter
	remaining := l.waiters[:0:0]
	for _, w := range l.waiters {
		if l.allLoaded(w.keys) {
			ready = append(ready, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	l.waiters = remaining
	for _, w := range ready {
		w.ready()
	}

	l.dispatch()
}
