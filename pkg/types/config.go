package types

// ProcessConfig holds settings for the takeoff processing stage.
type ProcessConfig struct {
	// ProjectRef is the default project reference used when the
	// --project flag is not given.
	ProjectRef string `json:"project_ref" yaml:"project_ref"`

	// ExtendedFields enables the derived columns (estimated height,
	// estimated volume, material name, planar centroid).
	ExtendedFields bool `json:"extended_fields" yaml:"extended_fields"`
}

// StoreConfig holds settings for the record store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "takeoff.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ExportDir is the directory export files are written to (default ".").
	ExportDir string `json:"export_dir" yaml:"export_dir"`
}

// Config groups all stage configurations.
type Config struct {
	Process ProcessConfig `json:"process" yaml:"process"`
	Store   StoreConfig   `json:"store" yaml:"store"`
}
