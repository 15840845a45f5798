// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stage names the pipeline step that produced an outcome.
type Stage string

const (
	StageLoad     Stage = "load"
	StageIndex    Stage = "index"
	StageExtract  Stage = "extract"
	StageExport   Stage = "export"
	StageInsert   Stage = "insert"
	StageOrganize Stage = "organize"
)

// Status is the result of one item.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reason classifies why an item was skipped or failed.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonLoadError            Reason = "load_error"
	ReasonIndexNotFound        Reason = "index_not_found"
	ReasonSectionNotCaptured   Reason = "section_not_captured"
	ReasonMappingRowMissing    Reason = "mapping_row_missing"
	ReasonTemplateMissing      Reason = "template_missing"
	ReasonTemplateFieldEmpty   Reason = "template_field_empty"
	ReasonAnchorNotFound       Reason = "anchor_not_found"
	ReasonImageExtractionError Reason = "image_extraction_error"
	ReasonPersistError         Reason = "persist_error"
	ReasonNoMatchingFile       Reason = "no_matching_file"
)

// Outcome records what happened to one item of a batch.
type Outcome struct {
	Stage   Stage  `json:"stage" yaml:"stage"`
	Subject string `json:"subject" yaml:"subject"` // title, keyword, or file name
	Status  Status `json:"status" yaml:"status"`
	Reason  Reason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail  string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Failed reports whether the outcome is a failure.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}
