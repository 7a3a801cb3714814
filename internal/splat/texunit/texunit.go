// Package texunit hands out texture image units, a scarce engine-wide
// resource. Reservations are labelled with their purpose for diagnostics.
package texunit

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
)

// DefaultUnits is the pool size used when none is configured. GL 4.1 core
// guarantees at least 16 fragment texture image units.
const DefaultUnits = 16

var (
	// ErrExhausted is returned when every unit is taken.
	ErrExhausted = errors.New("texunit: no texture image unit available")
	// ErrNotReserved is returned when releasing a unit that is free.
	ErrNotReserved = errors.New("texunit: unit not reserved")
)

// Pool is a fixed-size texture image unit allocator. It is not safe for
// concurrent use; install runs on a single setup thread.
type Pool struct {
	size     int
	reserved map[int]string
}

// NewPool creates a pool of n units numbered 0..n-1. Units listed in
// preReserved are taken up front (e.g. the engine's own color/elevation units).
func NewPool(n int, preReserved map[int]string) *Pool {
	if n <= 0 {
		n = DefaultUnits
	}
	p := &Pool{size: n, reserved: make(map[int]string)}
	for u, label := range preReserved {
		if u >= 0 && u < n {
			p.reserved[u] = label
		}
	}
	return p
}

// Reserve takes the lowest free unit and labels it.
func (p *Pool) Reserve(label string) (int, error) {
	for u := 0; u < p.size; u++ {
		if _, taken := p.reserved[u]; !taken {
			p.reserved[u] = label
			logger.Debug("reserved texture image unit",
				zap.Int("unit", u),
				zap.String("label", label),
			)
			return u, nil
		}
	}
	return -1, fmt.Errorf("reserving %q: %w", label, ErrExhausted)
}

// Release frees a unit.
func (p *Pool) Release(unit int) error {
	label, ok := p.reserved[unit]
	if !ok {
		return fmt.Errorf("releasing unit %d: %w", unit, ErrNotReserved)
	}
	delete(p.reserved, unit)
	logger.Debug("released texture image unit",
		zap.Int("unit", unit),
		zap.String("label", label),
	)
	return nil
}

// Label returns the purpose label of a reserved unit.
func (p *Pool) Label(unit int) (string, bool) {
	l, ok := p.reserved[unit]
	return l, ok
}

// Size returns the total number of units.
func (p *Pool) Size() int { return p.size }

// Available returns the number of free units.
func (p *Pool) Available() int { return p.size - len(p.reserved) }

// Reserved returns a snapshot of unit → label.
func (p *Pool) Reserved() map[int]string {
	out := make(map[int]string, len(p.reserved))
	for u, l := range p.reserved {
		out[u] = l
	}
	return out
}

// String lists reservations for diagnostics.
func (p *Pool) String() string {
	units := make([]int, 0, len(p.reserved))
	for u := range p.reserved {
		units = append(units, u)
	}
	sort.Ints(units)
	s := fmt.Sprintf("texunit.Pool(%d/%d)", len(units), p.size)
	for _, u := range units {
		s += fmt.Sprintf(" %d=%q", u, p.reserved[u])
	}
	return s
}
