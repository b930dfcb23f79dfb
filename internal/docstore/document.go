// Package docstore holds the document-store record shape and its client.
//
// The document schema is what the map client consumes: a flattened record
// keyed "vm<number>" with a nested observation block. Field names follow the
// client's camelCase convention, not the relational snake_case.
package docstore

// Document is one synchronized specimen record in the document store.
type Document struct {
	Key         string      `bson:"_id" json:"key"`
	Flagged     bool        `bson:"flagged" json:"flagged"`
	Observation Observation `bson:"observation" json:"observation"`
}

// Observation nests the event, location and observed-taxa blocks.
type Observation struct {
	Event        Event           `bson:"event" json:"event"`
	Location     Location        `bson:"location" json:"location"`
	TaxaObserved []TaxonObserved `bson:"taxaObserved" json:"taxaObserved"`
}

// Event describes who collected the specimen and when. Date parts are
// pointers: nil means the legacy row carried no usable value.
type Event struct {
	Recorder string `bson:"recorder" json:"recorder"`
	Contact  string `bson:"contact" json:"contact"`
	Year     *int   `bson:"year" json:"year"`
	Month    *int   `bson:"month" json:"month"`
	Day      *int   `bson:"day" json:"day"`
}

// Location describes where the specimen was collected. Coordinates are
// pointers for the same reason as Event's date parts; a literal zero
// coordinate is present, not absent.
type Location struct {
	Country          string   `bson:"country" json:"country"`
	StateProvince    string   `bson:"stateProvince" json:"stateProvince"`
	Town             string   `bson:"town" json:"town"`
	Locality         string   `bson:"locality" json:"locality"`
	DecimalLatitude  *float64 `bson:"decimalLatitude" json:"decimalLatitude"`
	DecimalLongitude *float64 `bson:"decimalLongitude" json:"decimalLongitude"`
}

// TaxonObserved carries the media, determination history and remarks for the
// single taxon a record documents. Every projected document has exactly one.
type TaxonObserved struct {
	ScientificName    string                  `bson:"scientificName" json:"scientificName"`
	TaxonCode         string                  `bson:"taxonCode" json:"taxonCode"`
	AssociatedMedia   []Media                 `bson:"associatedMedia" json:"associatedMedia"`
	Identifications   []IdentificationSummary `bson:"identifications" json:"identifications"`
	OccurrenceRemarks string                  `bson:"occurrenceRemarks" json:"occurrenceRemarks"`
}

// Media wraps one retrieval URL for a specimen photograph.
type Media struct {
	Identifier string `bson:"identifier" json:"identifier"`
}

// IdentificationSummary is the simplified determination note embedded in a
// document. Missing string fields default to empty strings.
type IdentificationSummary struct {
	Date           string `bson:"date" json:"date"`
	IdentifiedBy   string `bson:"identifiedBy" json:"identifiedBy"`
	Qualifier      string `bson:"qualifier" json:"qualifier"`
	ScientificName string `bson:"scientificName" json:"scientificName"`
	TaxonCode      string `bson:"taxonCode" json:"taxonCode"`
	Remarks        string `bson:"remarks" json:"remarks"`
}
