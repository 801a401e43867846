package model

import (
	"math/rand"
	"time"
)

// Registry holds the keys of one playthrough. Collected flags only flip back
// through ResetAll.
type Registry struct {
	items     []Collectible
	collected int
}

// SpawnAll creates exactly requested collectibles with ids 0..requested-1.
// Listed positions are used first; the rest are scattered uniformly over
// extent at the given height.
func SpawnAll(positions []Vec3, requested int, extent Extent, height float64, rng *rand.Rand) *Registry {
	if requested < 0 {
		requested = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &Registry{items: make([]Collectible, requested)}
	for i := 0; i < requested; i++ {
		var p Vec3
		if i < len(positions) {
			p = positions[i]
		} else {
			p = Vec3{
				X: extent.MinX + rng.Float64()*(extent.MaxX-extent.MinX),
				Y: height,
				Z: extent.MinZ + rng.Float64()*(extent.MaxZ-extent.MinZ),
			}
		}
		r.items[i] = Collectible{ID: i, Position: p}
	}
	return r
}

// MarkCollected flips the flag of id. Already collected or unknown ids are a
// no-op; changed reports whether anything happened.
func (r *Registry) MarkCollected(id int) (count int, changed bool) {
	if id < 0 || id >= len(r.items) || r.items[id].Collected {
		return r.collected, false
	}
	r.items[id].Collected = true
	r.collected++
	return r.collected, true
}

func (r *Registry) IsComplete() bool {
	return r.collected == len(r.items)
}

func (r *Registry) ResetAll() {
	for i := range r.items {
		r.items[i].Collected = false
	}
	r.collected = 0
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) Get(id int) (Collectible, bool) {
	if id < 0 || id >= len(r.items) {
		return Collectible{}, false
	}
	return r.items[id], true
}

// All returns a copy, in id order.
func (r *Registry) All() []Collectible {
	out := make([]Collectible, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Uncollected() []Collectible {
	out := make([]Collectible, 0, len(r.items)-r.collected)
	for _, c := range r.items {
		if !c.Collected {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) Progress() Progress {
	return Progress{Collected: r.collected, Total: len(r.items)}
}
