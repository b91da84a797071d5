package csvimport

import "strings"

// Canonical field names produced by the reconciler.
const (
	FieldUserEmail   = "user_email"
	FieldUserID      = "user_id"
	FieldUserLogin   = "user_login"
	FieldType        = "type"
	FieldAddressName = "address_name"
	FieldAddressID   = "address_id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldCompany     = "company"
	FieldAddress1    = "address_1"
	FieldAddress2    = "address_2"
	FieldCity        = "city"
	FieldState       = "state"
	FieldPostcode    = "postcode"
	FieldCountry     = "country"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldIsDefault   = "is_default"
	FieldVATNumber   = "vat_number"
)

// fieldAliases maps lowercased header spellings to canonical field names.
// Note that the bare "email" header means the address contact email, not the
// user identifier, though its presence still satisfies the identifier-column
// header check below.
var fieldAliases = map[string]string{
	// user identifiers
	"user_email": FieldUserEmail,
	"user_id":    FieldUserID,
	"user_login": FieldUserLogin,
	"ユーザーメール":   FieldUserEmail,
	"ユーザーid":    FieldUserID,

	// address type
	"type":         FieldType,
	"address_type": FieldType,
	"タイプ":          FieldType,

	// internal name
	"address_name":          FieldAddressName,
	"address_internal_name": FieldAddressName,
	"name":                  FieldAddressName,
	"住所名":                   FieldAddressName,

	// site / external identifier
	"address_id":      FieldAddressID,
	"address_site_id": FieldAddressID,
	"site_id":         FieldAddressID,
	"住所id":            FieldAddressID,

	// person
	"first_name": FieldFirstName,
	"firstname":  FieldFirstName,
	"名":          FieldFirstName,
	"last_name":  FieldLastName,
	"lastname":   FieldLastName,
	"姓":          FieldLastName,

	// company
	"company":      FieldCompany,
	"company_name": FieldCompany,
	"会社名":          FieldCompany,

	// street address
	"address_1": FieldAddress1,
	"address1":  FieldAddress1,
	"street":    FieldAddress1,
	"住所1":       FieldAddress1,
	"address_2": FieldAddress2,
	"address2":  FieldAddress2,
	"住所2":       FieldAddress2,

	// locality
	"city":        FieldCity,
	"市区町村":        FieldCity,
	"state":       FieldState,
	"province":    FieldState,
	"都道府県":        FieldState,
	"postcode":    FieldPostcode,
	"zip":         FieldPostcode,
	"postal_code": FieldPostcode,
	"郵便番号":        FieldPostcode,
	"country":      FieldCountry,
	"country_code": FieldCountry,
	"国":            FieldCountry,

	// contact
	"phone": FieldPhone,
	"tel":   FieldPhone,
	"電話番号":  FieldPhone,
	"email": FieldEmail,
	"mail":  FieldEmail,
	"メール":   FieldEmail,

	// flags
	"is_default": FieldIsDefault,
	"default":    FieldIsDefault,
	"デフォルト":      FieldIsDefault,
	"vat_number": FieldVATNumber,
	"vat":        FieldVATNumber,
	"vat番号":      FieldVATNumber,
}

// identifierHeaders are the lowercased header spellings that satisfy the
// requirement for a user identifier column. The bare "email" header counts
// even though it maps to the address contact email.
var identifierHeaders = map[string]bool{
	"user_email": true,
	"user_id":    true,
	"user_login": true,
	"email":      true,
	"ユーザーメール":   true,
	"ユーザーid":    true,
}

// StandardFields are the address fields copied onto an entry under
// type-prefixed keys when non-empty.
var StandardFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldCompany,
	FieldAddress1,
	FieldAddress2,
	FieldCity,
	FieldState,
	FieldPostcode,
	FieldCountry,
	FieldPhone,
	FieldEmail,
}

// metaFields are canonical fields consumed by the importer itself; any other
// reconciled key is a custom field carried through onto the entry. FieldAddressID
// is not listed: besides becoming the site ID it is also carried through.
var metaFields = map[string]bool{
	FieldUserEmail:   true,
	FieldUserID:      true,
	FieldUserLogin:   true,
	FieldType:        true,
	FieldAddressName: true,
	FieldIsDefault:   true,
	FieldVATNumber:   true,
	FieldFirstName:   true,
	FieldLastName:    true,
	FieldCompany:     true,
	FieldAddress1:    true,
	FieldAddress2:    true,
	FieldCity:        true,
	FieldState:       true,
	FieldPostcode:    true,
	FieldCountry:     true,
	FieldPhone:       true,
	FieldEmail:       true,
}

// Record is a reconciled row: canonical field names (or passed-through custom
// keys) to trimmed values.
type Record map[string]string

// Get returns the value for a canonical field, or "" when absent.
func (r Record) Get(key string) string {
	return r[key]
}

// Has reports whether the field key was present in the row at all.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// MapRecord reconciles a parsed row into canonical field names. Headers are
// lowercased and trimmed before the alias lookup; unmapped headers pass
// through lowercased as custom fields. Values are trimmed.
func MapRecord(row *Row) Record {
	rec := make(Record, len(row.Data))
	for header, value := range row.Data {
		key := strings.TrimSpace(strings.ToLower(header))
		if key == "" {
			continue
		}
		if canonical, ok := fieldAliases[key]; ok {
			key = canonical
		}
		rec[key] = strings.TrimSpace(value)
	}
	return rec
}

// HasIdentifierColumn reports whether any header names a user identifier.
func HasIdentifierColumn(headers []string) bool {
	for _, h := range headers {
		if identifierHeaders[strings.TrimSpace(strings.ToLower(h))] {
			return true
		}
	}
	return false
}

// IsCustomField reports whether a reconciled key should be carried through
// onto the entry as a custom field.
func IsCustomField(key string) bool {
	return !metaFields[key]
}

// IsTruthy reports whether a flag value marks the entry as default.
func IsTruthy(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "true", "yes", "はい":
		return true
	}
	return false
}
