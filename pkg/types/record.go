package types

// ColumnRecord is one assembled takeoff row for a structural column.
// Records are immutable after assembly; the engine hands the full
// sequence to the caller in floor/name order. Field tags keep the
// exported column names stable across the store, the YAML/JSON exports
// and the spreadsheet templates downstream.
type ColumnRecord struct {
	// UniqueID is the composite key
	// sanitize(name)-globalID-sanitize(floor)-projectRef. It is unique
	// per project within a run; two same-named columns on different
	// floors never collide.
	UniqueID string `json:"ID_Unico" yaml:"ID_Unico"`

	// ProjectRef is the caller-supplied project reference, verbatim.
	ProjectRef string `json:"Projeto_Ref" yaml:"Projeto_Ref"`

	// Name is the column display name, "S/N" when the model has none.
	Name string `json:"Nome" yaml:"Nome"`

	// Section is the formatted cross-section "<smaller>x<larger>" in
	// centimeters, or "N/A" when geometry could not be resolved.
	Section string `json:"Secao" yaml:"Secao"`

	// Reinforcement is the aggregated bar description, e.g.
	// "4 ø12.5 + 2 ø10.0", or the manual-check sentinel.
	Reinforcement string `json:"Armadura" yaml:"Armadura"`

	// Floor is the containing storey name, "Ground Floor" when the
	// column has no containment reference.
	Floor string `json:"Pavimento" yaml:"Pavimento"`

	// Status, ReviewDate and Reviewer drive the review workflow
	// downstream. They start as "A CONFERIR" / "" / "".
	Status     string `json:"Status" yaml:"Status"`
	ReviewDate string `json:"Data_Conferencia" yaml:"Data_Conferencia"`
	Reviewer   string `json:"Responsavel" yaml:"Responsavel"`

	// Extended fields, populated only when extended output is enabled.
	// Height is in centimeters, Volume in cubic meters, centroid
	// coordinates in the model's local axes (centimeters).
	Height    float64 `json:"Altura_Estimada,omitempty" yaml:"Altura_Estimada,omitempty"`
	Volume    float64 `json:"Volume_Estimado,omitempty" yaml:"Volume_Estimado,omitempty"`
	Material  string  `json:"Material,omitempty" yaml:"Material,omitempty"`
	CentroidX float64 `json:"Centro_X,omitempty" yaml:"Centro_X,omitempty"`
	CentroidY float64 `json:"Centro_Y,omitempty" yaml:"Centro_Y,omitempty"`
}
