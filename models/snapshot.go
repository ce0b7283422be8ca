package models

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Key identifies an ingredient in a Snapshot: "id:<n>" or "name:<category>:<normalized name>".
type Key string

func IDKey(id int) Key {
	return Key("id:" + strconv.Itoa(id))
}

// NameKey is scoped to a category so a hop and a malt sharing a name never share stock.
func NameKey(c Category, name string) Key {
	return Key("name:" + string(c) + ":" + NormalizeName(name))
}

func (k Key) IsID() bool {
	return strings.HasPrefix(string(k), "id:")
}

// Snapshot is a point in time view of on-hand stock. It is rebuilt wholesale on every fetch
// and never modified in place; every method that changes quantities returns a new Snapshot.
type Snapshot struct {
	qty map[Key]decimal.Decimal
	// alias links an id key to the name key of the same ingredient.
	alias map[Key]Key
}

// NewSnapshot indexes ingredients by identifier and by category and normalized name. On a name
// collision within a category the first ingredient wins.
func NewSnapshot(ings []Ingredient) Snapshot {
	s := Snapshot{
		qty:   make(map[Key]decimal.Decimal, len(ings)*2),
		alias: make(map[Key]Key, len(ings)),
	}
	for _, ing := range ings {
		stock := clampZero(ing.Stock)
		if ing.ID != 0 {
			s.qty[IDKey(ing.ID)] = stock
		}
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		nk := NameKey(ing.Category, ing.Name)
		if _, ok := s.qty[nk]; ok {
			continue
		}
		s.qty[nk] = stock
		if ing.ID != 0 {
			s.alias[IDKey(ing.ID)] = nk
		}
	}
	return s
}

// SnapshotOf builds a snapshot from explicit entries.
func SnapshotOf(entries map[Key]decimal.Decimal) Snapshot {
	s := Snapshot{qty: make(map[Key]decimal.Decimal, len(entries))}
	for k, v := range entries {
		s.qty[k] = clampZero(v)
	}
	return s
}

// Get returns the quantity stored under key and whether the key exists.
func (s Snapshot) Get(k Key) (decimal.Decimal, bool) {
	v, ok := s.qty[k]
	return v, ok
}

// Available returns the on-hand quantity under the requirement's key. A requirement with an
// identifier is never matched by name. Unknown ingredients have zero.
func (s Snapshot) Available(req CategorizedRequirement) decimal.Decimal {
	return s.qty[req.Key()]
}

func (s Snapshot) Len() int {
	return len(s.qty)
}

// Keys returns all keys sorted.
func (s Snapshot) Keys() []Key {
	keys := make([]Key, 0, len(s.qty))
	for k := range s.qty {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Equal reports whether both snapshots hold the same keys with equal quantities.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s.qty) != len(o.qty) {
		return false
	}
	for k, v := range s.qty {
		ov, ok := o.qty[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Deduct returns a copy with each requirement subtracted, clamped at zero. This is a display
// preview only; the backend's stock after a re-fetch is authoritative.
func (s Snapshot) Deduct(reqs []CategorizedRequirement) Snapshot {
	out := Snapshot{
		qty:   make(map[Key]decimal.Decimal, len(s.qty)),
		alias: s.alias,
	}
	for k, v := range s.qty {
		out.qty[k] = v
	}
	for _, req := range reqs {
		k := req.Key()
		if _, ok := out.qty[k]; !ok {
			continue
		}
		out.qty[k] = clampZero(out.qty[k].Sub(req.Quantity))
		if nk, ok := s.alias[k]; ok {
			out.qty[nk] = clampZero(out.qty[nk].Sub(req.Quantity))
		}
	}
	return out
}
