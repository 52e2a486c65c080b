package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/picker-cli/internal/model"
)

//go:embed data/restaurants.json
var embeddedCatalog []byte

// Loader resolves the candidate list from one of three sources, checked in
// order: an explicit file path, an explicit URL, the embedded default list.
type Loader struct {
	path string
	url  string
	http *http.Client
}

// Option configures the Loader.
type Option func(*Loader)

// WithPath loads the catalog from a local JSON file.
func WithPath(path string) Option {
	return func(l *Loader) { l.path = path }
}

// WithURL loads the catalog from a JSON document over HTTP.
func WithURL(url string) Option {
	return func(l *Loader) { l.url = url }
}

// WithHTTPClient overrides the default http.Client used for URL loading.
func WithHTTPClient(hc *http.Client) Option {
	return func(l *Loader) { l.http = hc }
}

// NewLoader creates a Loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the full candidate list. Any failure is a load error: the
// caller gets an empty set, never a partially decoded one.
func (l *Loader) Load(ctx context.Context) ([]model.Candidate, error) {
	switch {
	case l.path != "":
		return l.loadFile()
	case l.url != "":
		return l.loadURL(ctx)
	default:
		return decodeCandidates(embeddedCatalog, "embedded")
	}
}

func (l *Loader) loadFile() ([]model.Candidate, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", l.path)
	}
	return decodeCandidates(raw, l.path)
}

func (l *Loader) loadURL(ctx context.Context) ([]model.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: build request")
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("catalog: unexpected status %d from %s", resp.StatusCode, l.url)
	}

	var candidates []model.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, eris.Wrap(err, "catalog: decode response")
	}

	if err := Validate(candidates); err != nil {
		return nil, err
	}

	zap.L().Info("catalog loaded",
		zap.String("source", l.url),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

func decodeCandidates(raw []byte, source string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, eris.Wrapf(err, "catalog: decode %s", source)
	}
	if err := Validate(candidates); err != nil {
		return nil, err
	}
	zap.L().Info("catalog loaded",
		zap.String("source", source),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}
