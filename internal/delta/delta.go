// Package delta computes the field-level change set between a vendor's
// current master data snapshot and an edited profile form.
package delta

import (
	"sort"

	"github.com/google/uuid"

	"github.com/procure-core/vendor-mdm-api/internal/models"
)

// Compute diffs the edited values against the original snapshot for every
// touched field and emits one ChangeRequestItem per actual difference. Fields
// the client never touched are ignored even if the submitted value differs,
// mirroring dirty-field tracking in the profile form. When touched is nil,
// every submitted field is considered touched.
func Compute(original, edited map[string]string, touched []string) []models.ChangeRequestItem {
	keys := touched
	if keys == nil {
		keys = make([]string, 0, len(edited))
		for key := range edited {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	items := make([]models.ChangeRequestItem, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		newValue, ok := edited[key]
		if !ok {
			continue
		}
		oldValue := original[key]
		if newValue == oldValue {
			continue
		}
		meta := Lookup(key)
		items = append(items, models.ChangeRequestItem{
			ID:          uuid.NewString(),
			TableName:   meta.Table,
			FieldName:   meta.Field,
			OldValue:    oldValue,
			NewValue:    newValue,
			IsSensitive: meta.Sensitive,
		})
	}
	return items
}

// Classify derives the request category from the computed items: any bank
// table item makes it BANK_DATA, otherwise address fields win over tax
// fields, and anything else is GENERAL.
func Classify(items []models.ChangeRequestItem) models.RequestType {
	hasAddress, hasTax := false, false
	for _, item := range items {
		switch {
		case item.TableName == "LFBK":
			return models.RequestTypeBankData
		case addressFields[item.FieldName]:
			hasAddress = true
		case taxFields[item.FieldName]:
			hasTax = true
		}
	}
	switch {
	case hasAddress:
		return models.RequestTypeAddress
	case hasTax:
		return models.RequestTypeTax
	default:
		return models.RequestTypeGeneral
	}
}
