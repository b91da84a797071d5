package address

import "context"

// Type distinguishes billing from shipping addresses.
type Type string

const (
	TypeBilling  Type = "billing"
	TypeShipping Type = "shipping"
)

// Valid reports whether t is a known address type.
func (t Type) Valid() bool {
	return t == TypeBilling || t == TypeShipping
}

// Well-known field keys within an entry's field map. All other standard
// fields are stored under "{type}_{field}" keys, e.g. "shipping_city".
const (
	SiteIDKey = "shipping_site_id"

	legacyShippingIDKey = "shipping_id"
	legacyBillingIDKey  = "billing_id"
)

// CompanyKey returns the field key holding the company for the given type.
func CompanyKey(t Type) string {
	return string(t) + "_company"
}

// DefaultFlagKey returns the field key marking an entry as the default
// address of its type.
func DefaultFlagKey(t Type) string {
	return string(t) + "_is_default_address"
}

// Entry is one stored address. Fields holds the type-prefixed standard
// fields plus any custom fields carried through from an import.
type Entry struct {
	ID           int               `json:"address_id"`
	Type         Type              `json:"type"`
	InternalName string            `json:"address_internal_name"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// Get returns the value of a field, or "" when absent.
func (e *Entry) Get(key string) string {
	return e.Fields[key]
}

// Has reports whether the field key is present, even with an empty value.
func (e *Entry) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// Set stores a field value, allocating the map on first use.
func (e *Entry) Set(key, value string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[key] = value
}

// NextID returns the next free entry ID: one past the highest ID in the
// collection, or 1 for an empty collection. IDs of removed entries may be
// reused once they no longer hold the maximum.
func NextID(entries []Entry) int {
	max := 0
	for _, e := range entries {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// HasDuplicateCompany reports whether an entry of the given type already
// carries exactly this company name. The comparison is case-sensitive.
func HasDuplicateCompany(entries []Entry, t Type, company string) bool {
	key := CompanyKey(t)
	for i := range entries {
		if entries[i].Type == t && entries[i].Has(key) && entries[i].Get(key) == company {
			return true
		}
	}
	return false
}

// ClearDefaultFlag removes the default-address marker of the given type from
// every entry, so a newly flagged entry becomes the only default.
func ClearDefaultFlag(entries []Entry, t Type) {
	key := DefaultFlagKey(t)
	for i := range entries {
		delete(entries[i].Fields, key)
	}
}

// MatchesDeleteID reports whether the entry is selected by a delete request
// for the given type and identifier. Site IDs are checked first, then the
// legacy per-type ID fields, then the company name. A field only matches when
// it is actually present on the entry, so an empty identifier never matches
// entries that simply lack the field.
func (e *Entry) MatchesDeleteID(t Type, deleteID string) bool {
	if e.Type != t {
		return false
	}
	if t == TypeShipping {
		if e.Has(SiteIDKey) && e.Get(SiteIDKey) == deleteID {
			return true
		}
		if e.Has(legacyShippingIDKey) && e.Get(legacyShippingIDKey) == deleteID {
			return true
		}
	}
	if t == TypeBilling && e.Has(legacyBillingIDKey) && e.Get(legacyBillingIDKey) == deleteID {
		return true
	}
	return e.Has(CompanyKey(t)) && e.Get(CompanyKey(t)) == deleteID
}

// RemoveMatching splits the collection into entries kept and entries removed
// by a delete request. All matching entries are removed, not just the first.
func RemoveMatching(entries []Entry, t Type, deleteID string) (kept, removed []Entry) {
	for _, e := range entries {
		if e.MatchesDeleteID(t, deleteID) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	return kept, removed
}

// FindMatch returns the first entry a delete request would select, or nil.
func FindMatch(entries []Entry, t Type, deleteID string) *Entry {
	for i := range entries {
		if entries[i].MatchesDeleteID(t, deleteID) {
			return &entries[i]
		}
	}
	return nil
}

// Repository stores each user's address collection as a single document.
// Reads return the full collection; writes replace it.
type Repository interface {
	ReadAddresses(ctx context.Context, userID string) ([]Entry, error)
	WriteAddresses(ctx context.Context, userID string, entries []Entry) error
}
