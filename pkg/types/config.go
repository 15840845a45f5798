// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the memoria-engine
// batch stages.
package types

// TitleMatch selects how the section extractor compares an indexed title
// against body headings.
type TitleMatch string

const (
	// MatchExact compares normalized heading text for equality.
	MatchExact TitleMatch = "exact"
	// MatchSubstring accepts any heading whose text contains the title.
	MatchSubstring TitleMatch = "substring"
)

// PathsConfig holds the directories and files a batch reads and writes.
type PathsConfig struct {
	// ConfigDir holds presentaciones/ and memorias/ template folders.
	ConfigDir string `json:"config_dir" yaml:"config_dir"`

	// OutputDir is the working area for artifacts and copied templates.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MappingFile is the keyword mapping workbook (.xlsx).
	MappingFile string `json:"mapping_file" yaml:"mapping_file"`

	// KeywordsFile lists one index keyword per line.
	KeywordsFile string `json:"keywords_file" yaml:"keywords_file"`

	// ClientsDir is the root under which client folders live.
	ClientsDir string `json:"clients_dir" yaml:"clients_dir"`

	// LogDir receives one log file per invocation.
	LogDir string `json:"log_dir" yaml:"log_dir"`

	// LedgerPath is the SQLite run ledger.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`
}

// DocumentConfig holds the heading-style convention shared by the
// extractor, the recomposer, and the inserter.
type DocumentConfig struct {
	// HeadingPrefix marks a paragraph style as a structural heading
	// (default "ARTICA").
	HeadingPrefix string `json:"heading_prefix" yaml:"heading_prefix"`

	// HeadingStyle is the named style given to artifact headings. It must
	// start with HeadingPrefix so artifacts can be re-read.
	HeadingStyle string `json:"heading_style" yaml:"heading_style"`

	// TitleMatch selects exact or substring title matching.
	TitleMatch TitleMatch `json:"title_match" yaml:"title_match"`

	// Patterns are extra regular expressions accepted by the index scanner
	// alongside the keywords.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// PipelineConfig groups everything one batch needs.
type PipelineConfig struct {
	Paths    PathsConfig    `json:"paths" yaml:"paths"`
	Document DocumentConfig `json:"document" yaml:"document"`
}

// Job identifies one client's batch.
type Job struct {
	// Client is the client folder name under ClientsDir.
	Client string `json:"client" yaml:"client"`

	// ClientBase is the resolved client root substituted into mapping paths.
	ClientBase string `json:"client_base" yaml:"client_base"`

	// ProyectoMenor selects presentation templates instead of memoria
	// templates.
	ProyectoMenor bool `json:"proyecto_menor" yaml:"proyecto_menor"`
}
