package datastore

import (
	"context"

	"github.com/vmcollection/spidermap-go/internal/errors"
	"gorm.io/gorm"
)

// specimenColumns is the projection shared by all specimen+taxonomy joins.
const specimenColumns = "d.vm_number, d.sp_code, d.collector, d.collector_email, " +
	"d.year_collected, d.month_collected, d.day_collected, " +
	"d.country, d.state_province, d.closest_town, d.locality, " +
	"d.decimal_latitude, d.decimal_longitude, d.remarks, d.deleted, " +
	"d.id_confirmed_by, d.date_id_confirmed, " +
	"t.scientific_name, t.family, t.taxonomic_authority"

// specimenQuery returns the base specimen+taxonomy join.
func (ds *DataStore) specimenQuery(ctx context.Context) *gorm.DB {
	return ds.DB.WithContext(ctx).
		Table("vm_data AS d").
		Select(specimenColumns).
		Joins("JOIN vm_taxonomy t ON d.sp_code = t.sp_code")
}

// SearchSpecimens executes the specimen+taxonomy join restricted by the
// compiled predicate list, binding parameters positionally.
func (ds *DataStore) SearchSpecimens(ctx context.Context, filters *CompiledFilters) ([]SpecimenRow, error) {
	query := ds.specimenQuery(ctx)
	for i, predicate := range filters.Predicates {
		query = query.Where(predicate, filters.Params[i])
	}

	var rows []SpecimenRow
	if err := query.Order("d.vm_number").Scan(&rows).Error; err != nil {
		return nil, dbError(err, "search_specimens", "predicates", len(filters.Predicates))
	}
	return rows, nil
}

// GetSpecimen retrieves a single live specimen with its taxonomy fields.
func (ds *DataStore) GetSpecimen(ctx context.Context, vmNumber int) (SpecimenRow, error) {
	var row SpecimenRow
	err := ds.specimenQuery(ctx).
		Where("d.vm_number = ?", vmNumber).
		Where("d.deleted = ?", 0).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return SpecimenRow{}, dbError(err, "get_specimen", "vm_number", vmNumber)
	}
	if row.VMNumber == 0 {
		return SpecimenRow{}, errors.New(ErrSpecimenNotFound).
			Component("datastore").
			Category(errors.CategoryNotFound).
			Context("vm_number", vmNumber).
			Build()
	}
	return row, nil
}

// IdentificationsForSpecimen returns the live determination notes for one
// specimen, most recent first. The vm_panel soft-delete sentinel is nullable
// text, so both NULL and empty mean the row is live.
func (ds *DataStore) IdentificationsForSpecimen(ctx context.Context, vmNumber int) ([]Identification, error) {
	var idents []Identification
	err := ds.DB.WithContext(ctx).
		Where("vm_number = ?", vmNumber).
		Where("deleted IS NULL OR deleted = ''").
		Order("date_identified DESC").
		Find(&idents).Error
	if err != nil {
		return nil, dbError(err, "identifications_for_specimen", "vm_number", vmNumber)
	}
	return idents, nil
}
