// Package locate resolves the user's coordinate once per session. Absence of
// a location is a normal, supported state, never fatal.
package locate

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/pkg/geoip"
)

// Locator yields the user's coordinate or a classified failure.
type Locator interface {
	Current(ctx context.Context) (*model.Coordinate, error)
}

// Static always returns a fixed coordinate from configuration.
type Static struct {
	Coordinate model.Coordinate
}

// Current implements Locator.
func (s *Static) Current(ctx context.Context) (*model.Coordinate, error) {
	c := s.Coordinate
	return &c, nil
}

// Unsupported reports that no location source is configured.
type Unsupported struct{}

// ErrUnsupported is returned when the environment has no location source.
var ErrUnsupported = eris.New("locate: no location source configured")

// Current implements Locator.
func (Unsupported) Current(ctx context.Context) (*model.Coordinate, error) {
	return nil, ErrUnsupported
}

// IP resolves the coordinate via IP geolocation.
type IP struct {
	Client geoip.Client
}

// Current implements Locator.
func (l *IP) Current(ctx context.Context) (*model.Coordinate, error) {
	return l.Client.Locate(ctx)
}

// Cached wraps a Locator and resolves it exactly once per session; every
// later call returns the same answer without touching the source again.
type Cached struct {
	Source Locator

	once  sync.Once
	coord *model.Coordinate
	err   error
}

// NewCached wraps source with once-per-session caching.
func NewCached(source Locator) *Cached {
	return &Cached{Source: source}
}

// Current implements Locator.
func (c *Cached) Current(ctx context.Context) (*model.Coordinate, error) {
	c.once.Do(func() {
		c.coord, c.err = c.Source.Current(ctx)
		if c.err != nil {
			zap.L().Warn("location unavailable", zap.Error(c.err))
		} else {
			zap.L().Info("location resolved",
				zap.Float64("lat", c.coord.Lat),
				zap.Float64("lng", c.coord.Lng),
			)
		}
	})
	return c.coord, c.err
}

// Classify maps a locator failure onto the pick error taxonomy. Each branch
// carries a distinct user-facing message downstream.
func Classify(err error) model.ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupported):
		return model.ErrLocationUnsupported
	case errors.Is(err, geoip.ErrDenied):
		return model.ErrLocationDenied
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return model.ErrLocationTimeout
	default:
		return model.ErrLocationUnavailable
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
