// Package picker orchestrates a single pick: filter, uniform random
// selection, place resolution, detail fetch, open-now evaluation and distance
// estimation. Stage failures annotate the outcome instead of aborting it; a
// failure at one stage never discards what earlier stages produced.
package picker

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/picker-cli/internal/catalog"
	"github.com/sells-group/picker-cli/internal/hours"
	"github.com/sells-group/picker-cli/internal/locate"
	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/pkg/distance"
	"github.com/sells-group/picker-cli/pkg/places"
)

const (
	defaultRadiusMeters = 50000.0
	metersPerMile       = 1609.344
)

// ErrBusy is returned when a pick is requested while another is in flight.
var ErrBusy = eris.New("picker: a pick is already in progress")

// Request is one pick invocation. A nil Coordinate means the picker should
// resolve the location itself.
type Request struct {
	Categories []string          `json:"categories"`
	Coordinate *model.Coordinate `json:"coordinate,omitempty"`
}

// Picker runs the enrichment pipeline. At most one pick is active at a time;
// the latest settled outcome is retained for consumers.
type Picker struct {
	places  places.Client
	dist    distance.Client
	locator locate.Locator

	candidates []model.Candidate
	loadErrs   []model.StageError
	radius     float64
	now        func() time.Time

	randMu sync.Mutex
	rand   *rand.Rand

	inflight   *semaphore.Weighted
	generation atomic.Uint64

	mu      sync.RWMutex
	current *model.Outcome
}

// Option configures a Picker.
type Option func(*Picker)

// WithCatalogError marks the catalog as having failed to load. Every outcome
// carries the load error alongside whatever else happens.
func WithCatalogError() Option {
	return func(p *Picker) {
		p.loadErrs = append(p.loadErrs, model.NewStageError(model.ErrLoadError, "catalog"))
	}
}

// WithRadius overrides the search bias radius in meters.
func WithRadius(meters float64) Option {
	return func(p *Picker) { p.radius = meters }
}

// WithRand overrides the selection randomness source.
func WithRand(r *rand.Rand) Option {
	return func(p *Picker) { p.rand = r }
}

// WithClock overrides the reference clock for open-now evaluation.
func WithClock(now func() time.Time) Option {
	return func(p *Picker) { p.now = now }
}

// New creates a Picker over the given candidate set and provider clients.
func New(
	candidates []model.Candidate,
	placesClient places.Client,
	distClient distance.Client,
	locator locate.Locator,
	opts ...Option,
) *Picker {
	p := &Picker{
		places:     placesClient,
		dist:       distClient,
		locator:    locator,
		candidates: candidates,
		radius:     defaultRadiusMeters,
		now:        time.Now,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		inflight:   semaphore.NewWeighted(1),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Candidates returns the full catalog the picker draws from.
func (p *Picker) Candidates() []model.Candidate {
	return p.candidates
}

// Current returns the latest settled outcome, or nil before the first pick.
func (p *Picker) Current() *model.Outcome {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Pick runs the pipeline once. It returns ErrBusy when another pick is in
// flight; any other failure mode settles into the outcome's error list
// instead of an error return.
func (p *Picker) Pick(ctx context.Context, req Request) (*model.Outcome, error) {
	if !p.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer p.inflight.Release(1)

	gen := p.generation.Add(1)
	start := time.Now()

	outcome := &model.Outcome{PickID: uuid.NewString()}
	outcome.Errors = append(outcome.Errors, p.loadErrs...)
	log := zap.L().With(zap.String("pick_id", outcome.PickID))

	fail := func(kind model.ErrorKind, stage string, err error) {
		outcome.Errors = append(outcome.Errors, model.NewStageError(kind, stage))
		log.Warn("picker: stage failed",
			zap.String("stage", stage),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}

	settle := func() (*model.Outcome, error) {
		outcome.ElapsedMS = time.Since(start).Milliseconds()
		p.publish(outcome, gen)
		log.Info("picker: settled",
			zap.String("name", outcome.Selection.Name),
			zap.Int("errors", len(outcome.Errors)),
			zap.Int64("elapsed_ms", outcome.ElapsedMS),
		)
		return outcome, nil
	}

	// Guard: an empty filtered set is the only condition that prevents a
	// selection at all.
	pool := catalog.Filter(p.candidates, req.Categories)
	if len(pool) == 0 {
		fail(model.ErrNoCandidates, "filter", eris.New("picker: empty filtered set"))
		return settle()
	}

	// The committed selection. It never changes, whatever later stages do.
	selected := pool[p.intn(len(pool))]
	outcome.Selection.Candidate = selected
	log.Info("picker: selected",
		zap.String("name", selected.Name),
		zap.String("category", selected.Category),
		zap.Int("pool", len(pool)),
	)

	origin := req.Coordinate
	if origin == nil {
		loc, err := p.locator.Current(ctx)
		if err != nil {
			fail(locate.Classify(err), "locate", err)
			return settle()
		}
		origin = loc
	}

	place, err := p.places.Search(ctx, selected.Name, *origin, p.radius)
	if err != nil {
		fail(model.ErrProviderSearch, "search", err)
		return settle()
	}
	if place == nil {
		fail(model.ErrPlaceNotFound, "search", eris.Errorf("picker: no match for %q", selected.Name))
		return settle()
	}
	outcome.Selection.Place = place
	outcome.MapCenter = &place.Coordinate
	outcome.CrowDistanceM = haversineMeters(*origin, place.Coordinate)

	// Details failure keeps the coordinate already found and still allows
	// the distance stage to run.
	details, err := p.places.Details(ctx, place.PlaceID)
	if err != nil {
		fail(model.ErrProviderDetails, "details", err)
	} else {
		outcome.Selection.Details = details
		if len(details.Periods) > 0 {
			outcome.Selection.IsOpenNow = hours.IsOpenNow(details.Periods, p.now())
		}
	}

	est, err := p.dist.Estimate(ctx, *origin, place.Coordinate, distance.ModeDriving)
	if err != nil {
		fail(model.ErrProviderDistance, "distance", err)
	} else {
		outcome.DistanceText = fmt.Sprintf("%.2f miles (%s driving)",
			float64(est.Meters)/metersPerMile, est.DurationText)
	}

	return settle()
}

// publish replaces the retained outcome unless a newer pick has started.
func (p *Picker) publish(o *model.Outcome, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation.Load() != gen {
		zap.L().Debug("picker: dropping stale outcome", zap.String("pick_id", o.PickID))
		return
	}
	p.current = o
}

func (p *Picker) intn(n int) int {
	p.randMu.Lock()
	defer p.randMu.Unlock()
	return p.rand.Intn(n)
}

const earthRadiusMeters = 6371000.0

// haversineMeters is the great-circle distance between two coordinates. Used
// as the straight-line figure alongside the drive estimate.
func haversineMeters(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
