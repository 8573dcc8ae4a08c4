// Package catalog holds the body regions a respondent can mark as painful.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/prescreen/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegions []byte

// ErrUnknownRegion is returned by Get for an ID not in the catalog.
var ErrUnknownRegion = errors.New("unknown region")

type file struct {
	Version string          `yaml:"version"`
	Regions []domain.Region `yaml:"regions"`
}

// Catalog is an immutable, ordered set of regions.
type Catalog struct {
	version string
	regions []domain.Region
	byID    map[string]int
}

// Default returns the embedded catalog. It panics if the embedded data is
// malformed, which only a broken build can cause.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultRegions))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded regions: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes and validates a catalog. All problems are reported together.
func Load(r io.Reader) (*Catalog, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing regions: %w", err)
	}
	if errs := validate(&f); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c := &Catalog{
		version: f.Version,
		regions: f.Regions,
		byID:    make(map[string]int, len(f.Regions)),
	}
	for i, r := range f.Regions {
		c.byID[r.ID] = i
	}
	return c, nil
}

func validate(f *file) []error {
	var errs []error
	if strings.TrimSpace(f.Version) == "" {
		errs = append(errs, errors.New("version is required"))
	}
	if len(f.Regions) == 0 {
		errs = append(errs, errors.New("at least one region is required"))
	}
	seen := make(map[string]bool, len(f.Regions))
	for i, r := range f.Regions {
		prefix := fmt.Sprintf("regions[%d]", i)
		switch {
		case r.ID == "":
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		case seen[r.ID]:
			errs = append(errs, fmt.Errorf("%s.id: duplicate %q", prefix, r.ID))
		}
		seen[r.ID] = true
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if !onPlane(r.Anchor) {
			errs = append(errs, fmt.Errorf("%s.anchor (%g,%g) is outside 0..100", prefix, r.Anchor.X, r.Anchor.Y))
		}
		if r.Radius <= 0 {
			errs = append(errs, fmt.Errorf("%s.radius must be positive, got %g", prefix, r.Radius))
		}
	}
	return errs
}

func onPlane(p domain.Point) bool {
	return p.X >= 0 && p.X <= 100 && p.Y >= 0 && p.Y <= 100
}

// Version identifies the catalog data so stored answers can be interpreted later.
func (c *Catalog) Version() string { return c.version }

// All returns the regions in declaration order.
func (c *Catalog) All() []domain.Region {
	out := make([]domain.Region, len(c.regions))
	copy(out, c.regions)
	return out
}

func (c *Catalog) Get(id string) (domain.Region, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, id)
	}
	return c.regions[i], nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Name returns the display name for id, or id itself when unknown.
func (c *Catalog) Name(id string) string {
	if i, ok := c.byID[id]; ok {
		return c.regions[i].Name
	}
	return id
}

// HitTest resolves a point on the diagram to a region. Where circles
// overlap the nearest anchor wins; ties go to the earlier declaration.
func (c *Catalog) HitTest(x, y float64) (domain.Region, bool) {
	i := domain.Nearest(c.regions, domain.Point{X: x, Y: y})
	if i < 0 {
		return domain.Region{}, false
	}
	return c.regions[i], true
}
