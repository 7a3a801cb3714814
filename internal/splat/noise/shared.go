package noise

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

// ErrNotAcquired is returned by Shared.Release without a matching Acquire.
var ErrNotAcquired = errors.New("noise: shared texture not acquired")

// Releaser gives texture image units back.
type Releaser interface {
	Release(unit int) error
}

// Shared is the noise binding on one state set, reference counted across
// the effects that sample it. The texture, uniform and unit are removed when
// the last user releases, and only if Shared installed them.
type Shared struct {
	ss    *state.StateSet
	refs  int
	unit  int
	owned bool
}

// NewShared tracks the noise binding on ss.
func NewShared(ss *state.StateSet) *Shared {
	return &Shared{ss: ss, unit: -1}
}

// Acquire adds a user. The first user installs the texture generated by p
// unless the uniform is already bound; later users reuse the bound unit.
func (s *Shared) Acquire(p *Provider, units Reserver) (int, error) {
	if s.refs == 0 {
		unit, installed, err := p.EnsureInstalled(s.ss, units)
		if err != nil {
			return -1, err
		}
		s.unit, s.owned = unit, installed
	}
	s.refs++
	logger.Debug("noise texture acquired", zap.Int("unit", s.unit), zap.Int("refs", s.refs))
	return s.unit, nil
}

// Release drops a user and uninstalls the texture after the last one.
func (s *Shared) Release(units Releaser) error {
	if s.refs == 0 {
		return ErrNotAcquired
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}

	unit, owned := s.unit, s.owned
	s.unit, s.owned = -1, false
	if !owned {
		return nil
	}
	s.ss.RemoveTextureAttribute(unit)
	s.ss.RemoveUniform(UniformName)
	if err := units.Release(unit); err != nil {
		return fmt.Errorf("releasing noise unit %d: %w", unit, err)
	}
	logger.Debug("noise texture removed", zap.Int("unit", unit))
	return nil
}

// Refs returns the number of current users.
func (s *Shared) Refs() int { return s.refs }
