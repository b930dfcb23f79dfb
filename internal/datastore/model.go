// model.go this code defines the data model for the application
package datastore

// Specimen represents a single collection record in the legacy vm_data table.
// Date parts and coordinates are stored as legacy text columns and may be blank.
type Specimen struct {
	VMNumber         int    `gorm:"column:vm_number;primaryKey"`
	SpCode           string `gorm:"column:sp_code;index:idx_vm_data_sp_code"`
	Collector        string `gorm:"column:collector"`
	CollectorEmail   string `gorm:"column:collector_email;index:idx_vm_data_collector_email"`
	YearCollected    string `gorm:"column:year_collected"`
	MonthCollected   string `gorm:"column:month_collected"`
	DayCollected     string `gorm:"column:day_collected"`
	Country          string `gorm:"column:country"`
	StateProvince    string `gorm:"column:state_province"`
	ClosestTown      string `gorm:"column:closest_town"`
	Locality         string `gorm:"column:locality"`
	DecimalLatitude  string `gorm:"column:decimal_latitude"`
	DecimalLongitude string `gorm:"column:decimal_longitude"`
	Remarks          string `gorm:"column:remarks"`
	// Deleted is the soft-delete flag, 0 = live. Rows are never removed physically.
	Deleted         int    `gorm:"column:deleted;index:idx_vm_data_deleted"`
	IDConfirmedBy   string `gorm:"column:id_confirmed_by"`
	DateIDConfirmed string `gorm:"column:date_id_confirmed"`
}

// TableName overrides the table name to match the legacy schema.
func (Specimen) TableName() string {
	return "vm_data"
}

// Taxon represents a species-level reference row in vm_taxonomy.
type Taxon struct {
	SpCode             string `gorm:"column:sp_code;primaryKey" json:"sp_code"`
	ScientificName     string `gorm:"column:scientific_name;index:idx_vm_taxonomy_sciname" json:"scientific_name"`
	Family             string `gorm:"column:family" json:"family"`
	TaxonomicAuthority string `gorm:"column:taxonomic_authority" json:"taxonomic_authority"`
}

// TableName overrides the table name to match the legacy schema.
func (Taxon) TableName() string {
	return "vm_taxonomy"
}

// Identification represents a dated determination note in vm_panel.
// Its soft-delete sentinel differs from Specimen's: the legacy column is
// nullable text, and NULL or empty means the row is live.
type Identification struct {
	PanelID        int     `gorm:"column:panel_id;primaryKey"`
	VMNumber       int     `gorm:"column:vm_number;index:idx_vm_panel_vm_number"`
	SpCode         string  `gorm:"column:sp_code"`
	IdentifiedBy   string  `gorm:"column:identified_by"`
	Qualifier      string  `gorm:"column:qualifier"`
	Remarks        string  `gorm:"column:remarks"`
	DateIdentified string  `gorm:"column:date_identified"`
	Deleted        *string `gorm:"column:deleted"`
}

// TableName overrides the table name to match the legacy schema.
func (Identification) TableName() string {
	return "vm_panel"
}

// SpecimenRow is one row of the specimen+taxonomy join returned by searches.
type SpecimenRow struct {
	Specimen
	ScientificName     string `gorm:"column:scientific_name"`
	Family             string `gorm:"column:family"`
	TaxonomicAuthority string `gorm:"column:taxonomic_authority"`
}
