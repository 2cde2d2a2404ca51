// Package history records search selections and turns them into a decaying
// score that feeds back into ranking.
package history

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Paintersrp/zortex/internal/section"
)

// Config tunes capacity and decay.
type Config struct {
	// Capacity is the number of selections kept; the oldest is evicted first.
	Capacity int `yaml:"capacity" json:"capacity"`
	// Decay scales the contribution of each ancestor level.
	Decay float64 `yaml:"decay" json:"decay"`
	// AgeRate is the exponential decay per day of age.
	AgeRate float64 `yaml:"age_rate" json:"age_rate"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{Capacity: 500, Decay: 0.7, AgeRate: 0.1}
}

// Selection is what the user picked from a result list.
type Selection struct {
	File        string        `json:"file"`
	SectionPath []section.Ref `json:"section_path"`
	Tokens      []string      `json:"tokens"`
}

// Key identifies a section across selections.
type Key struct {
	File string
	Kind section.Kind
	Text string
}

// Entry is a recorded selection.
type Entry struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Selection     Selection       `json:"selection"`
	Contributions map[Key]float64 `json:"-"`
}

// History is a bounded ring of entries, optionally mirrored to a Store.
type History struct {
	mu    sync.Mutex
	cfg   Config
	ring  []Entry
	start int
	count int
	store Store
	now   func() time.Time
}

// Option configures a History.
type Option func(*History)

// WithStore persists entries through s.
func WithStore(s Store) Option {
	return func(h *History) { h.store = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(h *History) { h.now = now }
}

// New returns an empty History.
func New(cfg Config, opts ...Option) *History {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.Decay <= 0 || cfg.Decay > 1 {
		cfg.Decay = def.Decay
	}
	if cfg.AgeRate < 0 {
		cfg.AgeRate = def.AgeRate
	}

	h := &History{
		cfg:  cfg,
		ring: make([]Entry, cfg.Capacity),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Open returns a History preloaded with the newest stored entries.
func Open(cfg Config, store Store, opts ...Option) (*History, error) {
	h := New(cfg, append(opts, WithStore(store))...)
	entries, err := store.Load(h.cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("history: load: %w", err)
	}
	for _, e := range entries {
		h.push(e)
	}
	return h, nil
}

// Record appends a selection and returns the stored entry. The selected
// section contributes 1.0 and each ancestor the previous level times Decay.
func (h *History) Record(sel Selection) (Entry, error) {
	if sel.File == "" {
		return Entry{}, errors.New("history: selection without file")
	}

	e := Entry{
		ID:            uuid.NewString(),
		Timestamp:     h.now(),
		Selection:     sel,
		Contributions: Contributions(sel, h.cfg.Decay),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil {
		if err := h.store.Append(e); err != nil {
			return Entry{}, fmt.Errorf("history: append: %w", err)
		}
	}
	h.push(e)
	return e, nil
}

// Contributions computes the per-section scores of a selection.
func Contributions(sel Selection, decay float64) map[Key]float64 {
	out := make(map[Key]float64, len(sel.SectionPath))
	score := 1.0
	for i := len(sel.SectionPath) - 1; i >= 0; i-- {
		ref := sel.SectionPath[i]
		out[Key{File: sel.File, Kind: ref.Kind, Text: ref.Text}] += score
		score *= decay
	}
	return out
}

// Score sums the age-decayed contributions of every entry for sections of
// file that appear in path. An empty path counts every section of the file.
func (h *History) Score(file string, path []section.Ref, now time.Time) float64 {
	wanted := make(map[Key]bool, len(path))
	for _, ref := range path {
		wanted[Key{File: file, Kind: ref.Kind, Text: ref.Text}] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0.0
	h.each(func(e Entry) {
		if e.Selection.File != file {
			return
		}
		age := h.ageFactor(e, now)
		for key, v := range e.Contributions {
			if key.File != file {
				continue
			}
			if len(path) > 0 && !wanted[key] {
				continue
			}
			total += v * age
		}
	})
	return total
}

// Frequency is the age-decayed count of selections of file.
func (h *History) Frequency(file string, now time.Time) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := 0.0
	h.each(func(e Entry) {
		if e.Selection.File == file {
			total += h.ageFactor(e, now)
		}
	})
	return total
}

// Entries returns the stored entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, 0, h.count)
	h.each(func(e Entry) { out = append(out, e) })
	return out
}

// Since returns entries recorded at or after t, oldest first.
func (h *History) Since(t time.Time) []Entry {
	var out []Entry
	for _, e := range h.Entries() {
		if !e.Timestamp.Before(t) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

// Clear removes every entry, including persisted ones.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.store != nil {
		if err := h.store.Clear(); err != nil {
			return fmt.Errorf("history: clear: %w", err)
		}
	}
	h.ring = make([]Entry, h.cfg.Capacity)
	h.start, h.count = 0, 0
	return nil
}

// Close closes the backing store, if any.
func (h *History) Close() error {
	if h.store == nil {
		return nil
	}
	return h.store.Close()
}

func (h *History) push(e Entry) {
	capacity := len(h.ring)
	if h.count < capacity {
		h.ring[(h.start+h.count)%capacity] = e
		h.count++
		return
	}
	h.ring[h.start] = e
	h.start = (h.start + 1) % capacity
}

func (h *History) each(fn func(Entry)) {
	for i := 0; i < h.count; i++ {
		fn(h.ring[(h.start+i)%len(h.ring)])
	}
}

func (h *History) ageFactor(e Entry, now time.Time) float64 {
	days := now.Sub(e.Timestamp).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-h.cfg.AgeRate * days)
}
