// Package wire defines the message shape a search request takes on the wire.
// The mapping between messages and compiled queries lives in internal/search;
// this package holds only the serializable types so both ends of a connection
// can share them.
package wire

// SearchProject is a project-wide search request. Include and exclude filters
// travel as a single comma-joined string of glob patterns; per-pattern
// whitespace is trimmed and empty segments are dropped on deserialization.
// Peers built against this contract rely on that exact round-trip behavior.
type SearchProject struct {
	ProjectID      uint64 `json:"project_id"`
	Query          string `json:"query"`
	Regex          bool   `json:"regex"`
	WholeWord      bool   `json:"whole_word"`
	CaseSensitive  bool   `json:"case_sensitive"`
	FilesToInclude string `json:"files_to_include"`
	FilesToExclude string `json:"files_to_exclude"`
}
