package delta

import "strings"

// FieldMeta resolves a profile form field to its SAP source table and field
// plus the sensitivity flag driving high-risk classification.
type FieldMeta struct {
	Table     string
	Field     string
	Sensitive bool
}

// UnknownTable is assigned to fields that have no catalog entry.
const UnknownTable = "UNKNOWN"

// catalog maps the flattened profile form keys to SAP vendor master fields.
// Bank detail fields (LFBK) are the sensitive ones.
var catalog = map[string]FieldMeta{
	"name":       {Table: "LFA1", Field: "NAME1"},
	"email":      {Table: "LFA1", Field: "SMTP_ADDR"},
	"street":     {Table: "LFA1", Field: "STRAS"},
	"city":       {Table: "LFA1", Field: "ORT01"},
	"postalCode": {Table: "LFA1", Field: "PSTLZ"},
	"country":    {Table: "LFA1", Field: "LAND1"},
	"taxNumber1": {Table: "LFA1", Field: "STCD1"},
	"bankAccount": {
		Table: "LFBK", Field: "BANKN", Sensitive: true,
	},
	"bankKey": {
		Table: "LFBK", Field: "BANKL", Sensitive: true,
	},
	// IBAN is bank data for classification purposes but is not one of the
	// designated sensitive pairs (account number and bank key are).
	"iban": {Table: "LFBK", Field: "IBAN"},
}

// SensitivePair reports whether a table/field pair is designated sensitive.
// Used when clients submit pre-computed delta items.
func SensitivePair(table, field string) bool {
	for _, meta := range catalog {
		if meta.Sensitive && meta.Table == table && meta.Field == field {
			return true
		}
	}
	return false
}

// Lookup returns the catalog entry for a form field. Unmapped keys fall back
// to the UNKNOWN table with the upper-cased field name and are non-sensitive.
func Lookup(key string) FieldMeta {
	if meta, ok := catalog[key]; ok {
		return meta
	}
	return FieldMeta{Table: UnknownTable, Field: strings.ToUpper(key)}
}

// addressFields and taxFields feed request type classification, keyed by SAP
// field name.
var addressFields = map[string]bool{
	"STRAS": true, "ORT01": true, "PSTLZ": true, "LAND1": true,
}

var taxFields = map[string]bool{
	"STCD1": true, "STCD2": true,
}
