package physics

import (
	"fmt"
	"math"

	"github.com/l1jgo/simcore/internal/geom"
	"go.uber.org/zap"
)

// Key addresses one cell of the partition grid.
type Key struct {
	X int
	Y int
}

func (k Key) String() string { return fmt.Sprintf("%d-%d", k.X, k.Y) }

// Partition is a grid cell holding static collider bounds, in insertion order.
type Partition struct {
	Key    Key
	Bounds []geom.Bounds
}

// Config tunes the partition grid and the motion integrator.
type Config struct {
	PartitionSize  float64
	WiggleRoom     float64 // boxes are shrunk by this much when computing outcodes
	MassEpsilon    float64
	MaxReflections int
}

func DefaultConfig() Config {
	return Config{
		PartitionSize:  256,
		WiggleRoom:     1,
		MassEpsilon:    1e-6,
		MaxReflections: 4,
	}
}

// Engine owns the sparse partition grid and resolves swept motion against it.
// Accessed only from the game loop goroutine, no locks.
type Engine struct {
	cfg        Config
	half       float64
	partitions map[Key]*Partition
	log        *zap.Logger
}

func NewEngine(cfg Config, log *zap.Logger) *Engine {
	if cfg.PartitionSize <= 0 {
		cfg.PartitionSize = DefaultConfig().PartitionSize
	}
	if cfg.MaxReflections <= 0 {
		cfg.MaxReflections = DefaultConfig().MaxReflections
	}
	return &Engine{
		cfg:        cfg,
		half:       cfg.PartitionSize / 2,
		partitions: make(map[Key]*Partition),
		log:        log,
	}
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) toCell(v float64) int {
	return int(math.Floor(v/e.cfg.PartitionSize + 0.5))
}

// PartitionAt maps a world position to the cell whose center is nearest.
func (e *Engine) PartitionAt(p geom.Vec) Key {
	return Key{X: e.toCell(p.X), Y: e.toCell(p.Y)}
}

// PartitionOf maps a box to the cell holding its center.
func (e *Engine) PartitionOf(b geom.Bounds) Key {
	return e.PartitionAt(b.Center())
}

// CellBounds is the world-space box covered by a cell.
func (e *Engine) CellBounds(k Key) geom.Bounds {
	size := e.cfg.PartitionSize
	return geom.Bounds{
		ID:      k.String(),
		TopLeft: geom.Vec{X: float64(k.X)*size - e.half, Y: float64(k.Y)*size - e.half},
		W:       size,
		H:       size,
	}
}

// Partition returns the stored partition for k, or nil when the cell is empty.
func (e *Engine) Partition(k Key) *Partition {
	return e.partitions[k]
}

// AddToWorld inserts a static collider and returns the key needed to remove it.
func (e *Engine) AddToWorld(b geom.Bounds) Key {
	k := e.PartitionOf(b)
	p := e.partitions[k]
	if p == nil {
		p = &Partition{Key: k}
		e.partitions[k] = p
	}
	p.Bounds = append(p.Bounds, b)
	return k
}

// RemoveFromWorld drops every bounds owned by id from partition k.
func (e *Engine) RemoveFromWorld(k Key, id string) {
	p := e.partitions[k]
	if p == nil {
		e.log.Warn("probably a bug: expected partition does not exist",
			zap.Stringer("partition", k), zap.String("id", id))
		return
	}

	before := len(p.Bounds)
	kept := p.Bounds[:0]
	for _, b := range p.Bounds {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < before; i++ {
		p.Bounds[i] = geom.Bounds{}
	}
	p.Bounds = kept

	if len(kept) == before {
		e.log.Warn("probably a bug: bounds not found in the partition they were expected in",
			zap.Stringer("partition", k), zap.String("id", id))
	}
	if len(kept) == 0 {
		delete(e.partitions, k)
	}
}

// Stats returns the number of non-empty partitions and stored bounds.
func (e *Engine) Stats() (partitions, bounds int) {
	for _, p := range e.partitions {
		bounds += len(p.Bounds)
	}
	return len(e.partitions), bounds
}

var neighbourOffsets = [...]Key{
	{0, 0},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// withNeighbours expands keys by one ring, preserving first-seen order.
func withNeighbours(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys)*9)
	out := make([]Key, 0, len(keys)*9)
	for _, k := range keys {
		for _, d := range neighbourOffsets {
			n := Key{k.X + d.X, k.Y + d.Y}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// PartitionsForRay returns every cell a sweep along r could touch, plus one
// ring of neighbours. Over-inclusion is fine; a missed cell is not.
func (e *Engine) PartitionsForRay(r geom.Ray) []Key {
	start := e.PartitionAt(r.Start)
	end := e.PartitionAt(r.End)
	if start == end {
		return withNeighbours([]Key{start})
	}

	keys := []Key{start, end}
	minX, maxX := min(start.X, end.X), max(start.X, end.X)
	minY, maxY := min(start.Y, end.Y), max(start.Y, end.Y)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			k := Key{x, y}
			if geom.IntersectBounds(r, e.CellBounds(k), e.cfg.WiggleRoom).Hit() {
				keys = append(keys, k)
			}
		}
	}
	return withNeighbours(keys)
}

// clipInPartition shortens r to the nearest bounds hit within p.
func (e *Engine) clipInPartition(r *geom.Ray, p *Partition, current geom.Intersection) geom.Intersection {
	for _, b := range p.Bounds {
		hit := geom.IntersectBounds(*r, b, e.cfg.WiggleRoom)
		if hit.Hit() {
			current = hit
			r.End = hit.Point
		}
	}
	return current
}

// ClipRay returns the first collider hit travelling along r.
func (e *Engine) ClipRay(r geom.Ray) geom.Intersection {
	var result geom.Intersection
	for _, k := range e.PartitionsForRay(r) {
		p := e.partitions[k]
		if p == nil {
			continue
		}
		result = e.clipInPartition(&r, p, result)
	}
	return result
}
