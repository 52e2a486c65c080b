package locate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/pkg/geoip"
)

type countingLocator struct {
	calls int
	coord *model.Coordinate
	err   error
}

func (c *countingLocator) Current(ctx context.Context) (*model.Coordinate, error) {
	c.calls++
	return c.coord, c.err
}

func TestStatic(t *testing.T) {
	s := &Static{Coordinate: model.Coordinate{Lat: 28.5, Lng: -81.4}}
	coord, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 28.5, coord.Lat)
	assert.Equal(t, -81.4, coord.Lng)
}

func TestUnsupported(t *testing.T) {
	_, err := Unsupported{}.Current(context.Background())
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestCachedResolvesOnce(t *testing.T) {
	src := &countingLocator{coord: &model.Coordinate{Lat: 1, Lng: 2}}
	c := NewCached(src)

	for i := 0; i < 3; i++ {
		coord, err := c.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1.0, coord.Lat)
	}
	assert.Equal(t, 1, src.calls)
}

func TestCachedCachesFailure(t *testing.T) {
	src := &countingLocator{err: errors.New("boom")}
	c := NewCached(src)

	_, err1 := c.Current(context.Background())
	_, err2 := c.Current(context.Background())
	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 1, src.calls)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "unsupported",
			err:  ErrUnsupported,
			want: model.ErrLocationUnsupported,
		},
		{
			name: "denied",
			err:  geoip.ErrDenied,
			want: model.ErrLocationDenied,
		},
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: model.ErrLocationTimeout,
		},
		{
			name: "generic",
			err:  errors.New("network down"),
			want: model.ErrLocationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
