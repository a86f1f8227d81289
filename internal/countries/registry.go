package countries

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

//go:embed countries.json
var defaultCountries []byte

// Country is the reference data a listing's location value resolves to
type Country struct {
	Value  string     `json:"value"`
	Label  string     `json:"label"`
	Flag   string     `json:"flag"`
	Region string     `json:"region"`
	LatLng [2]float64 `json:"latlng"`
}

// Point returns the country centre as an orb point (lng, lat).
func (c Country) Point() orb.Point {
	return orb.Point{c.LatLng[1], c.LatLng[0]}
}

// Registry resolves location values to countries
type Registry struct {
	mu        sync.RWMutex
	countries []Country
	byValue   map[string]Country
	logger    *logrus.Logger
}

// NewRegistry builds a registry from the embedded reference data.
func NewRegistry(logger *logrus.Logger) (*Registry, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	r := &Registry{logger: logger}
	if err := r.load(defaultCountries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded countries: %w", err)
	}
	return r, nil
}

// LoadFile replaces the registry contents with the countries in path
func (r *Registry) LoadFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read countries file: %w", err)
	}

	if err := r.load(data); err != nil {
		return fmt.Errorf("failed to parse countries file: %w", err)
	}

	r.logger.WithField("path", absPath).Infof("Loaded %d countries", r.Len())
	return nil
}

func (r *Registry) load(data []byte) error {
	var countries []Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return err
	}

	byValue := make(map[string]Country, len(countries))
	for _, c := range countries {
		if c.Value == "" {
			return fmt.Errorf("country %q has no value", c.Label)
		}
		byValue[strings.ToUpper(c.Value)] = c
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Label < countries[j].Label
	})

	r.mu.Lock()
	r.countries = countries
	r.byValue = byValue
	r.mu.Unlock()
	return nil
}

// GetAll returns every known country ordered by label
func (r *Registry) GetAll() []Country {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Country, len(r.countries))
	copy(out, r.countries)
	return out
}

// GetByValue looks up a country by its location value, case-insensitively.
func (r *Registry) GetByValue(value string) (*Country, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byValue[strings.ToUpper(strings.TrimSpace(value))]
	if !ok {
		return nil, false
	}
	return &c, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.countries)
}

// FeatureCollection exposes the registry as GeoJSON points
func (r *Registry) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range r.GetAll() {
		f := geojson.NewFeature(c.Point())
		f.Properties["value"] = c.Value
		f.Properties["label"] = c.Label
		f.Properties["flag"] = c.Flag
		f.Properties["region"] = c.Region
		fc.Append(f)
	}
	return fc
}
