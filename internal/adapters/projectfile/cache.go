package projectfile

import (
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// WeatherCache loads each weather file once. Concurrent loads of the same
// file share one read. Series are read-only so they are shared between runs.
type WeatherCache struct {
	opts  []weather.Option
	group singleflight.Group

	mu     sync.RWMutex
	series map[string]*weather.Series
}

// NewWeatherCache creates a cache applying opts to every series it loads
func NewWeatherCache(opts ...weather.Option) *WeatherCache {
	return &WeatherCache{
		opts:   opts,
		series: make(map[string]*weather.Series),
	}
}

// Load returns the series for path, reading it on first use
func (c *WeatherCache) Load(path string) (*weather.Series, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	c.mu.RLock()
	s, ok := c.series[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		s, err := LoadWeather(path, c.opts...)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.series[key] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*weather.Series), nil
}

// Len returns the number of cached series
func (c *WeatherCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}
