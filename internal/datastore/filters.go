package datastore

import (
	"maps"
	"slices"
	"strings"

	"github.com/vmcollection/spidermap-go/internal/errors"
)

// FilterMode selects which filter policy applies to a request.
type FilterMode int

const (
	// ModeSearch is the generic column-equality search: every allow-listed
	// key becomes a predicate, no special-casing.
	ModeSearch FilterMode = iota

	// ModeRecords is the enriched-record search: the reserved "name" key
	// filters on scientific name, and a hard-coded family filter applies
	// when it is absent.
	ModeRecords
)

// NameFilterKey is the reserved request key carrying a scientific-name filter
// in ModeRecords.
const NameFilterKey = "name"

// DefaultFamily restricts record queries when no scientific name is given.
const DefaultFamily = "Theraphosidae"

// filterColumns is the allow-list of request keys permitted as equality
// filters, mapped to their qualified column. Client input never reaches the
// SQL text; only values are bound, positionally.
var filterColumns = map[string]string{
	"vm_number":       "d.vm_number",
	"sp_code":         "d.sp_code",
	"collector":       "d.collector",
	"collector_email": "d.collector_email",
	"year_collected":  "d.year_collected",
	"month_collected": "d.month_collected",
	"day_collected":   "d.day_collected",
	"country":         "d.country",
	"state_province":  "d.state_province",
	"closest_town":    "d.closest_town",
}

// CompiledFilters is an ordered list of predicate fragments and the parameter
// vector bound to them. Fragment i binds parameter i.
type CompiledFilters struct {
	Predicates []string
	Params     []any
}

func (cf *CompiledFilters) add(predicate string, param any) {
	cf.Predicates = append(cf.Predicates, predicate)
	cf.Params = append(cf.Params, param)
}

// CompileFilters turns untrusted request parameters into a parameterized
// predicate list. Keys outside the allow-list fail with ErrInvalidFilter;
// blank values contribute nothing. Soft-deleted specimens are always excluded.
func CompileFilters(params map[string]string, mode FilterMode) (*CompiledFilters, error) {
	cf := &CompiledFilters{}

	// Sorted iteration keeps predicate order stable across requests.
	for _, key := range slices.Sorted(maps.Keys(params)) {
		if mode == ModeRecords && key == NameFilterKey {
			continue
		}
		column, ok := filterColumns[key]
		if !ok {
			return nil, errors.Newf("unknown filter key %q: %w", key, ErrInvalidFilter).
				Component("datastore").
				Category(errors.CategoryValidation).
				Context("key", key).
				Build()
		}
		value := strings.TrimSpace(params[key])
		if value == "" {
			continue
		}
		cf.add(column+" = ?", value)
	}

	if mode == ModeRecords {
		if name := strings.TrimSpace(params[NameFilterKey]); name != "" {
			cf.add("t.scientific_name = ?", name)
		} else {
			cf.add("t.family = ?", DefaultFamily)
		}
	}

	// Soft-deleted specimens never leave the store.
	cf.add("d.deleted = ?", 0)

	return cf, nil
}
