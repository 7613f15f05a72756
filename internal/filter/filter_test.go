package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/findithq/findit/internal/model"
)

func sampleItems() []model.Item {
	return []model.Item{
		{ID: "1", Kind: model.KindLost, Title: "Blue Backpack", Description: "Navy blue backpack with laptop sleeve", Location: "Main Library", CategoryID: "bags", Status: model.StatusOpen},
		{ID: "2", Kind: model.KindFound, Title: "Red Wallet", Description: "Small leather wallet", Location: "Cafeteria", CategoryID: "accessories", Status: model.StatusOpen},
		{ID: "3", Kind: model.KindLost, Title: "iPhone 13", Description: "Black phone with cracked screen", Location: "Gym", CategoryID: "electronics", Status: model.StatusMatched},
		{ID: "4", Kind: model.KindFound, Title: "Umbrella", Description: "Blue umbrella left in the rain", Location: "Bus Stop", CategoryID: "", Status: model.StatusClosed},
	}
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestApplyUnconstrained(t *testing.T) {
	items := sampleItems()

	got := Apply(items, Spec{})

	assert.Equal(t, ids(items), ids(got), "an empty spec should return every item in order")
	assert.False(t, Spec{}.Active())
}

func TestApplyPreservesOrder(t *testing.T) {
	items := sampleItems()

	got := Apply(items, Spec{Kind: KindLost})

	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApplyTerm(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		term string
		want []string
	}{
		{"blue", []string{"1", "4"}},      // title and description, case-insensitive
		{"BACKPACK", []string{"1"}},       // case-insensitive title
		{"cafeteria", []string{"2"}},      // location
		{"leather", []string{"2"}},        // description
		{"", []string{"1", "2", "3", "4"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		got := Apply(items, Spec{Term: tt.term})
		assert.Equal(t, tt.want, ids(got), "term %q", tt.term)
	}
}

func TestKindFiltersArePartition(t *testing.T) {
	items := sampleItems()

	lost := Apply(items, Spec{Kind: KindLost})
	found := Apply(items, Spec{Kind: KindFound})

	assert.Len(t, lost, 2)
	assert.Len(t, found, 2)
	for _, item := range lost {
		assert.NotContains(t, ids(found), item.ID, "lost and found results must be disjoint")
	}
}

func TestApplyCombinesConstraints(t *testing.T) {
	items := sampleItems()

	got := Apply(items, Spec{Term: "blue", Kind: KindLost, CategoryID: "bags", Status: StatusOpen})

	assert.Equal(t, []string{"1"}, ids(got))

	// Tightening any one constraint can only shrink the result.
	loose := Apply(items, Spec{Term: "blue"})
	assert.GreaterOrEqual(t, len(loose), len(got))
}

func TestConstraintOrderDoesNotMatter(t *testing.T) {
	items := sampleItems()
	combined := Spec{Term: "blue", Kind: KindLost, CategoryID: "bags", Status: StatusOpen}

	want := Apply(items, combined)

	// Applying the four constraints one at a time, in any order, must give
	// the same result as the combined spec.
	singles := []Spec{
		{Term: combined.Term},
		{Kind: combined.Kind},
		{CategoryID: combined.CategoryID},
		{Status: combined.Status},
	}
	for _, order := range [][]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1},
	} {
		got := items
		for _, i := range order {
			got = Apply(got, singles[i])
		}
		assert.Equal(t, ids(want), ids(got), "order %v", order)
	}
}

func TestSequentialEqualsCombined(t *testing.T) {
	items := sampleItems()

	sequential := Apply(Apply(items, Spec{Kind: KindLost}), Spec{Term: "blue"})
	combined := Apply(items, Spec{Kind: KindLost, Term: "blue"})

	assert.Equal(t, ids(combined), ids(sequential))
}

func TestMatchesAgreesWithApply(t *testing.T) {
	items := sampleItems()
	spec := Spec{Term: "e", Status: StatusOpen}

	filtered := Apply(items, spec)
	for _, item := range items {
		assert.Equal(t, contains(ids(filtered), item.ID), Matches(item, spec), "item %s", item.ID)
	}
}

func TestUnknownValuesOnlyMatchUnconstrained(t *testing.T) {
	weird := model.Item{ID: "x", Kind: "stolen", Status: "pending", Title: "Thing", Description: "d", Location: "l"}

	assert.True(t, Matches(weird, Spec{}))
	assert.False(t, Matches(weird, Spec{Kind: KindLost}))
	assert.False(t, Matches(weird, Spec{Kind: KindFound}))
	assert.False(t, Matches(weird, Spec{Status: StatusOpen}))
}

func TestParseRoundTrip(t *testing.T) {
	assert.Equal(t, KindLost, ParseKind("lost"))
	assert.Equal(t, KindFound, ParseKind("found"))
	assert.Equal(t, KindAny, ParseKind(""))
	assert.Equal(t, KindAny, ParseKind("bogus"))

	assert.Equal(t, StatusMatched, ParseStatus("matched"))
	assert.Equal(t, StatusAny, ParseStatus("bogus"))

	// String is the inverse of Parse for every constrained variant.
	for _, k := range []KindFilter{KindLost, KindFound} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	for _, s := range []StatusFilter{StatusOpen, StatusMatched, StatusClosed} {
		assert.Equal(t, s, ParseStatus(s.String()))
	}
	assert.Empty(t, KindAny.String())
	assert.Empty(t, StatusAny.String())
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	items := sampleItems()
	before := ids(items)

	Apply(items, Spec{Kind: KindFound, Term: "wallet"})

	assert.Equal(t, before, ids(items))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
