// Package hierarchy derives ancestry chains, canonical paths and
// breadcrumb trails from the self-referential locations table.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mreeves/fosterhub/internal/model"
)

// MaxDepth is the number of hierarchy levels (country, region, county, city).
// A parent walk that exceeds it means the data is cyclic or malformed.
const MaxDepth = 4

var (
	// ErrChainTooDeep means the parent walk exceeded MaxDepth levels
	ErrChainTooDeep = errors.New("ancestry chain exceeds maximum depth")

	// ErrBrokenChain means a parent reference points at a missing row
	ErrBrokenChain = errors.New("ancestry chain references a missing location")
)

// Lookup fetches a location by ID. A (nil, nil) return means not found.
type Lookup func(ctx context.Context, id int64) (*model.Location, error)

// allowedParents maps each location type to the types its parent may have.
// A country has no parent.
var allowedParents = map[model.LocationType][]model.LocationType{
	model.TypeCity:    {model.TypeCounty, model.TypeRegion, model.TypeCountry},
	model.TypeCounty:  {model.TypeRegion, model.TypeCountry},
	model.TypeRegion:  {model.TypeCountry},
	model.TypeCountry: {},
}

// BuildAncestryChain walks parent references from loc to the root and
// returns the chain ordered root first, loc last. The walk is capped at
// MaxDepth levels so a corrupted parent graph fails instead of looping.
func BuildAncestryChain(ctx context.Context, loc *model.Location, lookup Lookup) ([]model.Location, error) {
	if loc == nil {
		return nil, errors.New("location is nil")
	}

	chain := []model.Location{*loc}
	current := loc

	for current.HasParent() {
		if len(chain) >= MaxDepth {
			return nil, fmt.Errorf("%w: location %q", ErrChainTooDeep, loc.Slug)
		}

		parent, err := lookup(ctx, current.ParentID.Int64)
		if err != nil {
			return nil, fmt.Errorf("failed to look up parent of %q: %w", current.Slug, err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent %d of %q", ErrBrokenChain, current.ParentID.Int64, current.Slug)
		}

		chain = append([]model.Location{*parent}, chain...)
		current = parent
	}

	return chain, nil
}

// BuildLocationPath joins every chain element's slug into the canonical
// URL path, root-to-leaf: /locations/<root-slug>/.../<target-slug>.
func BuildLocationPath(chain []model.Location) string {
	return "/locations/" + strings.Join(PathSlugs(chain), "/")
}

// PathSlugs returns the chain's slugs in root-to-leaf order
func PathSlugs(chain []model.Location) []string {
	slugs := make([]string, len(chain))
	for i, loc := range chain {
		slugs[i] = loc.Slug
	}
	return slugs
}

// ChildTypeLabel returns the display heading for a location's children
func ChildTypeLabel(t model.LocationType) string {
	switch t {
	case model.TypeCountry:
		return "Regions"
	case model.TypeRegion:
		return "Counties"
	case model.TypeCounty:
		return "Cities & Towns"
	default:
		return "Areas"
	}
}

// ValidateParent enforces the permitted-parent invariant at write time.
// parentType is empty when the location is being created without a parent.
func ValidateParent(childType, parentType model.LocationType) error {
	if !childType.Valid() {
		return fmt.Errorf("unknown location type %q", childType)
	}

	if parentType == "" {
		if childType != model.TypeCountry {
			return fmt.Errorf("a %s must have a parent", childType)
		}
		return nil
	}

	if childType == model.TypeCountry {
		return errors.New("a country cannot have a parent")
	}

	for _, allowed := range allowedParents[childType] {
		if parentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("a %s cannot belong to a %s", childType, parentType)
}

// BuildChainIndex computes the ancestry chain for every location in one
// pass over an already-loaded set, for bulk jobs like seeding and
// sitemap generation. The same depth cap applies per chain.
func BuildChainIndex(locations []model.Location) (map[int64][]model.Location, error) {
	byID := make(map[int64]model.Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	lookup := func(_ context.Context, id int64) (*model.Location, error) {
		if loc, ok := byID[id]; ok {
			return &loc, nil
		}
		return nil, nil
	}

	index := make(map[int64][]model.Location, len(locations))
	for _, loc := range locations {
		chain, err := BuildAncestryChain(context.Background(), &loc, lookup)
		if err != nil {
			return nil, err
		}
		index[loc.ID] = chain
	}
	return index, nil
}

// Crumb is one breadcrumb entry
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Breadcrumbs derives the breadcrumb trail for a chain. Each crumb's path
// covers the chain up to and including that element.
func Breadcrumbs(chain []model.Location) []Crumb {
	crumbs := make([]Crumb, len(chain))
	for i := range chain {
		crumbs[i] = Crumb{
			Label: chain[i].Name,
			Path:  BuildLocationPath(chain[:i+1]),
		}
	}
	return crumbs
}
