// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// ClientPlaceholder is the path-template segment replaced by the client
// base path.
const ClientPlaceholder = "cliente"

// MappingRow associates a keyword with its templates and filing path.
type MappingRow struct {
	// Keyword identifies an artifact (by equality with its file stem in the
	// inserter, by substring of its file name in the organizer).
	Keyword string `json:"keyword" yaml:"keyword"`

	// Presentacion is the template file used for minor projects.
	Presentacion string `json:"presentacion,omitempty" yaml:"presentacion,omitempty"`

	// Memoria is the template file used for full projects.
	Memoria string `json:"memoria,omitempty" yaml:"memoria,omitempty"`

	// Ruta is the destination path template, e.g. `cliente\Instalaciones\Fluidos`.
	Ruta string `json:"ruta" yaml:"ruta"`
}

// Template returns the template file name for the project mode, or "" when
// the row does not name one.
func (r MappingRow) Template(proyectoMenor bool) string {
	if proyectoMenor {
		return strings.TrimSpace(r.Presentacion)
	}
	return strings.TrimSpace(r.Memoria)
}

// TemplateFolder returns the configuration subdirectory holding templates
// for the project mode.
func TemplateFolder(proyectoMenor bool) string {
	if proyectoMenor {
		return "presentaciones"
	}
	return "memorias"
}
