package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	t.Run("Empty collection starts at 1", func(t *testing.T) {
		assert.Equal(t, 1, NextID(nil))
	})

	t.Run("One past the highest ID", func(t *testing.T) {
		entries := []Entry{{ID: 1}, {ID: 7}, {ID: 3}}
		assert.Equal(t, 8, NextID(entries))
	})

	t.Run("Gaps are not reused while a higher ID exists", func(t *testing.T) {
		entries := []Entry{{ID: 5}}
		assert.Equal(t, 6, NextID(entries))
	})
}

func TestHasDuplicateCompany(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeShipping, Fields: map[string]string{"shipping_company": "Acme Corp"}},
		{ID: 2, Type: TypeBilling, Fields: map[string]string{"billing_company": "Beta Inc"}},
	}

	t.Run("Match within same type", func(t *testing.T) {
		assert.True(t, HasDuplicateCompany(entries, TypeShipping, "Acme Corp"))
	})

	t.Run("Same company under other type is not a duplicate", func(t *testing.T) {
		assert.False(t, HasDuplicateCompany(entries, TypeBilling, "Acme Corp"))
	})

	t.Run("Comparison is case sensitive", func(t *testing.T) {
		assert.False(t, HasDuplicateCompany(entries, TypeShipping, "acme corp"))
		assert.False(t, HasDuplicateCompany(entries, TypeShipping, "ACME CORP"))
	})

	t.Run("Entries without a company field never match", func(t *testing.T) {
		bare := []Entry{{ID: 1, Type: TypeShipping}}
		assert.False(t, HasDuplicateCompany(bare, TypeShipping, ""))
	})
}

func TestClearDefaultFlag(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeShipping, Fields: map[string]string{"shipping_is_default_address": "1"}},
		{ID: 2, Type: TypeBilling, Fields: map[string]string{"billing_is_default_address": "1"}},
	}

	ClearDefaultFlag(entries, TypeShipping)

	assert.False(t, entries[0].Has("shipping_is_default_address"))
	assert.True(t, entries[1].Has("billing_is_default_address"))
}

func TestMatchesDeleteID(t *testing.T) {
	t.Run("Shipping site ID match", func(t *testing.T) {
		e := Entry{Type: TypeShipping, Fields: map[string]string{"shipping_site_id": "SITE-9"}}
		assert.True(t, e.MatchesDeleteID(TypeShipping, "SITE-9"))
		assert.False(t, e.MatchesDeleteID(TypeShipping, "SITE-1"))
	})

	t.Run("Legacy shipping ID match", func(t *testing.T) {
		e := Entry{Type: TypeShipping, Fields: map[string]string{"shipping_id": "42"}}
		assert.True(t, e.MatchesDeleteID(TypeShipping, "42"))
	})

	t.Run("Legacy billing ID match", func(t *testing.T) {
		e := Entry{Type: TypeBilling, Fields: map[string]string{"billing_id": "42"}}
		assert.True(t, e.MatchesDeleteID(TypeBilling, "42"))
	})

	t.Run("Company fallback match", func(t *testing.T) {
		e := Entry{Type: TypeShipping, Fields: map[string]string{"shipping_company": "Acme Corp"}}
		assert.True(t, e.MatchesDeleteID(TypeShipping, "Acme Corp"))
	})

	t.Run("Type must match", func(t *testing.T) {
		e := Entry{Type: TypeBilling, Fields: map[string]string{"billing_company": "Acme Corp"}}
		assert.False(t, e.MatchesDeleteID(TypeShipping, "Acme Corp"))
	})

	t.Run("Empty identifier does not match entries lacking the fields", func(t *testing.T) {
		e := Entry{Type: TypeShipping, Fields: map[string]string{"shipping_city": "Tokyo"}}
		assert.False(t, e.MatchesDeleteID(TypeShipping, ""))
	})
}

func TestRemoveMatching(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeShipping, Fields: map[string]string{"shipping_site_id": "S1"}},
		{ID: 2, Type: TypeShipping, Fields: map[string]string{"shipping_company": "S1"}},
		{ID: 3, Type: TypeShipping, Fields: map[string]string{"shipping_site_id": "S2"}},
		{ID: 4, Type: TypeBilling, Fields: map[string]string{"billing_company": "S1"}},
	}

	t.Run("All matches across identifier kinds are removed", func(t *testing.T) {
		kept, removed := RemoveMatching(entries, TypeShipping, "S1")
		assert.Len(t, removed, 2)
		assert.Len(t, kept, 2)
		assert.Equal(t, 3, kept[0].ID)
		assert.Equal(t, 4, kept[1].ID)
	})

	t.Run("No match leaves collection intact", func(t *testing.T) {
		kept, removed := RemoveMatching(entries, TypeShipping, "missing")
		assert.Empty(t, removed)
		assert.Len(t, kept, 4)
	})
}

func TestFindMatch(t *testing.T) {
	entries := []Entry{
		{ID: 1, Type: TypeShipping, Fields: map[string]string{"shipping_site_id": "S1"}},
		{ID: 2, Type: TypeShipping, Fields: map[string]string{"shipping_company": "S1"}},
	}

	t.Run("Returns first match only", func(t *testing.T) {
		match := FindMatch(entries, TypeShipping, "S1")
		assert.NotNil(t, match)
		assert.Equal(t, 1, match.ID)
	})

	t.Run("Nil when nothing matches", func(t *testing.T) {
		assert.Nil(t, FindMatch(entries, TypeBilling, "S1"))
	})
}

func TestEntryFieldAccess(t *testing.T) {
	var e Entry
	assert.False(t, e.Has("shipping_city"))
	assert.Equal(t, "", e.Get("shipping_city"))

	e.Set("shipping_city", "")
	assert.True(t, e.Has("shipping_city"))
	assert.Equal(t, "", e.Get("shipping_city"))
}
