package docstore

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vmcollection/spidermap-go/internal/records"
)

// RecordKey derives the document key for a specimen number.
func RecordKey(vmNumber int) string {
	return "vm" + strconv.Itoa(vmNumber)
}

// Project maps one composite record into the document-store shape. Pure
// function, no I/O: field renames, numeric coercion with explicit presence,
// and retrieval-URL construction against imageBaseURL.
//
// A parseable "0" projects to numeric zero, not null; only blank or
// unparseable legacy text maps to null.
func Project(record *records.CompositeRecord, imageBaseURL string) Document {
	media := make([]Media, 0, len(record.Images))
	for _, filename := range record.Images {
		media = append(media, Media{Identifier: imageURL(imageBaseURL, filename)})
	}

	idents := make([]IdentificationSummary, 0, len(record.Identifications))
	for _, ident := range record.Identifications {
		summary := IdentificationSummary{
			Date:         ident.DateIdentified,
			IdentifiedBy: ident.IdentifiedBy,
			Qualifier:    ident.Qualifier,
			TaxonCode:    ident.SpCode,
			Remarks:      ident.Remarks,
		}
		// The panel row carries only a code; the name is known when it
		// matches the specimen's current determination.
		if ident.SpCode == record.SpCode {
			summary.ScientificName = record.ScientificName
		}
		idents = append(idents, summary)
	}

	return Document{
		Key: RecordKey(record.VMNumber),
		Observation: Observation{
			Event: Event{
				Recorder: record.Collector,
				Contact:  record.CollectorEmail,
				Year:     intOrNil(record.YearCollected),
				Month:    intOrNil(record.MonthCollected),
				Day:      intOrNil(record.DayCollected),
			},
			Location: Location{
				Country:          record.Country,
				StateProvince:    record.StateProvince,
				Town:             record.ClosestTown,
				Locality:         record.Locality,
				DecimalLatitude:  floatOrNil(record.DecimalLatitude),
				DecimalLongitude: floatOrNil(record.DecimalLongitude),
			},
			// Exactly one entry per source record; specimens are never merged.
			TaxaObserved: []TaxonObserved{{
				ScientificName:    record.ScientificName,
				TaxonCode:         record.SpCode,
				AssociatedMedia:   media,
				Identifications:   idents,
				OccurrenceRemarks: record.Remarks,
			}},
		},
	}
}

func imageURL(baseURL, filename string) string {
	return strings.TrimSuffix(baseURL, "/") + "/recordImages/" + url.PathEscape(filename)
}

func intOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func floatOrNil(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
