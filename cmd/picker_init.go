package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/picker-cli/internal/catalog"
	"github.com/sells-group/picker-cli/internal/locate"
	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/internal/picker"
	"github.com/sells-group/picker-cli/pkg/distance"
	"github.com/sells-group/picker-cli/pkg/geoip"
	"github.com/sells-group/picker-cli/pkg/places"
)

// pickerEnv holds the loaded catalog, provider clients and the picker needed
// by the pick/serve commands.
type pickerEnv struct {
	Picker     *picker.Picker
	Candidates []model.Candidate
}

// loadCatalog resolves the candidate set per config. A load failure is not
// fatal: it leaves the set empty and is carried onto every outcome.
func loadCatalog(ctx context.Context) ([]model.Candidate, bool) {
	var opts []catalog.Option
	if cfg.Catalog.Path != "" {
		opts = append(opts, catalog.WithPath(cfg.Catalog.Path))
	}
	if cfg.Catalog.URL != "" {
		opts = append(opts, catalog.WithURL(cfg.Catalog.URL))
	}

	candidates, err := catalog.NewLoader(opts...).Load(ctx)
	if err != nil {
		zap.L().Error("catalog load failed", zap.Error(err))
		return nil, false
	}
	return candidates, true
}

// buildLocator picks the location source: a fixed coordinate from config wins,
// then IP lookup, otherwise location is unsupported. The result is cached for
// the life of the process.
func buildLocator() locate.Locator {
	var source locate.Locator
	switch {
	case cfg.Location.HasFixed():
		source = &locate.Static{Coordinate: model.Coordinate{
			Lat: *cfg.Location.Lat,
			Lng: *cfg.Location.Lng,
		}}
		zap.L().Info("location source: fixed coordinate")
	case cfg.Location.IPLookup:
		source = &locate.IP{Client: geoip.NewClient(
			geoip.WithBaseURL(cfg.Location.GeoIPURL),
			geoip.WithTimeout(time.Duration(cfg.Location.TimeoutSecs)*time.Second),
		)}
		zap.L().Info("location source: ip lookup")
	default:
		source = locate.Unsupported{}
		zap.L().Warn("no location source configured")
	}
	return locate.NewCached(source)
}

// initPicker loads the catalog, builds the provider clients and assembles the
// picker.
func initPicker(ctx context.Context, mode string) (*pickerEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	candidates, loaded := loadCatalog(ctx)

	placesClient := places.NewClient(cfg.Google.Key,
		places.WithBaseURL(cfg.Google.PlacesBaseURL),
		places.WithRateLimit(cfg.Google.RateLimitRPS),
		places.WithMaxPhotos(cfg.Google.MaxPhotos),
		places.WithPhotoBounds(cfg.Google.PhotoMaxWidth, cfg.Google.PhotoMaxHeight),
	)
	distClient := distance.NewClient(cfg.Google.Key,
		distance.WithBaseURL(cfg.Google.DistanceBaseURL),
		distance.WithRateLimit(cfg.Google.RateLimitRPS),
	)

	opts := []picker.Option{picker.WithRadius(cfg.Google.SearchRadiusM)}
	if !loaded {
		opts = append(opts, picker.WithCatalogError())
	}

	p := picker.New(candidates, placesClient, distClient, buildLocator(), opts...)

	zap.L().Info("picker ready",
		zap.Int("candidates", len(candidates)),
		zap.Int("categories", len(catalog.Categories(candidates))),
	)

	return &pickerEnv{Picker: p, Candidates: candidates}, nil
}
