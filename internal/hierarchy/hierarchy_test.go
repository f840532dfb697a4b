package hierarchy

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreeves/fosterhub/internal/model"
)

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

// mapLookup serves locations from an in-memory map, mimicking the store's
// (nil, nil) not-found convention.
func mapLookup(locs map[int64]model.Location) Lookup {
	return func(_ context.Context, id int64) (*model.Location, error) {
		if loc, ok := locs[id]; ok {
			return &loc, nil
		}
		return nil, nil
	}
}

func englandChain() map[int64]model.Location {
	return map[int64]model.Location{
		1: {ID: 1, Name: "England", Slug: "england", Type: model.TypeCountry},
		2: {ID: 2, Name: "South East", Slug: "south-east", Type: model.TypeRegion, ParentID: nullID(1)},
		3: {ID: 3, Name: "Surrey", Slug: "surrey", Type: model.TypeCounty, ParentID: nullID(2)},
		4: {ID: 4, Name: "Guildford", Slug: "guildford", Type: model.TypeCity, ParentID: nullID(3)},
	}
}

func TestBuildAncestryChain(t *testing.T) {
	locs := englandChain()
	target := locs[4]

	chain, err := BuildAncestryChain(context.Background(), &target, mapLookup(locs))
	require.NoError(t, err)
	require.Len(t, chain, 4)

	assert.False(t, chain[0].HasParent(), "chain must start at the root")
	assert.Equal(t, target.ID, chain[len(chain)-1].ID, "chain must end at the target")

	for i := 0; i < len(chain)-1; i++ {
		require.True(t, chain[i+1].HasParent())
		assert.Equal(t, chain[i].ID, chain[i+1].ParentID.Int64,
			"adjacent elements must be linked by parent_id")
	}
}

func TestBuildAncestryChainRootOnly(t *testing.T) {
	locs := englandChain()
	root := locs[1]

	chain, err := BuildAncestryChain(context.Background(), &root, mapLookup(locs))
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, root.ID, chain[0].ID)
}

func TestBuildAncestryChainCycle(t *testing.T) {
	// a <-> b: the walk must stop at MaxDepth, not loop forever
	locs := map[int64]model.Location{
		1: {ID: 1, Name: "A", Slug: "a", Type: model.TypeCity, ParentID: nullID(2)},
		2: {ID: 2, Name: "B", Slug: "b", Type: model.TypeCity, ParentID: nullID(1)},
	}
	target := locs[1]

	_, err := BuildAncestryChain(context.Background(), &target, mapLookup(locs))
	require.ErrorIs(t, err, ErrChainTooDeep)
}

func TestBuildAncestryChainMissingParent(t *testing.T) {
	target := model.Location{ID: 9, Name: "Orphan", Slug: "orphan", Type: model.TypeCity, ParentID: nullID(404)}

	_, err := BuildAncestryChain(context.Background(), &target, mapLookup(nil))
	require.ErrorIs(t, err, ErrBrokenChain)
}

func TestBuildLocationPath(t *testing.T) {
	locs := englandChain()
	target := locs[4]

	chain, err := BuildAncestryChain(context.Background(), &target, mapLookup(locs))
	require.NoError(t, err)

	assert.Equal(t, "/locations/england/south-east/surrey/guildford", BuildLocationPath(chain))
	assert.Equal(t, "/locations/england", BuildLocationPath(chain[:1]))
}

func TestChildTypeLabel(t *testing.T) {
	assert.Equal(t, "Regions", ChildTypeLabel(model.TypeCountry))
	assert.Equal(t, "Counties", ChildTypeLabel(model.TypeRegion))
	assert.Equal(t, "Cities & Towns", ChildTypeLabel(model.TypeCounty))
	assert.Equal(t, "Areas", ChildTypeLabel(model.TypeCity))
	assert.Equal(t, "Areas", ChildTypeLabel(model.LocationType("village")))
}

func TestValidateParent(t *testing.T) {
	cases := []struct {
		child, parent model.LocationType
		ok            bool
	}{
		{model.TypeCity, model.TypeCounty, true},
		{model.TypeCity, model.TypeRegion, true},
		{model.TypeCity, model.TypeCountry, true},
		{model.TypeCity, model.TypeCity, false},
		{model.TypeCounty, model.TypeRegion, true},
		{model.TypeCounty, model.TypeCounty, false},
		{model.TypeRegion, model.TypeCountry, true},
		{model.TypeRegion, model.TypeRegion, false},
		{model.TypeCountry, "", true},
		{model.TypeCountry, model.TypeCountry, false},
		{model.TypeRegion, "", false},
	}

	for _, tc := range cases {
		err := ValidateParent(tc.child, tc.parent)
		if tc.ok {
			assert.NoError(t, err, "%s under %q", tc.child, tc.parent)
		} else {
			assert.Error(t, err, "%s under %q", tc.child, tc.parent)
		}
	}
}

func TestBuildChainIndex(t *testing.T) {
	locs := englandChain()
	var all []model.Location
	for _, l := range locs {
		all = append(all, l)
	}

	index, err := BuildChainIndex(all)
	require.NoError(t, err)
	require.Len(t, index, 4)

	assert.Len(t, index[1], 1)
	assert.Len(t, index[4], 4)
	assert.Equal(t, "/locations/england/south-east/surrey/guildford", BuildLocationPath(index[4]))
}

func TestBreadcrumbs(t *testing.T) {
	locs := englandChain()
	target := locs[3]

	chain, err := BuildAncestryChain(context.Background(), &target, mapLookup(locs))
	require.NoError(t, err)

	crumbs := Breadcrumbs(chain)
	require.Len(t, crumbs, 3)
	assert.Equal(t, Crumb{Label: "England", Path: "/locations/england"}, crumbs[0])
	assert.Equal(t, Crumb{Label: "Surrey", Path: "/locations/england/south-east/surrey"}, crumbs[2])
}
