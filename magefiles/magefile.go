//go:build mage

// Package main contains Mage build targets for memoria-engine developer
// tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/memoria-engine/internal/xlsx"
)

// projectDirs lists the working directories a batch expects.
var projectDirs = []string{
	"config/memorias",
	"config/presentaciones",
	"output",
	"logs",
	"clientes",
}

const (
	mappingFile  = "config/mapeo.xlsx"
	keywordsFile = "config/keywords.txt"
)

// sampleMapping is written by Init when no mapping workbook exists.
var sampleMapping = [][]string{
	{"keyword", "presentacion", "memoria", "ruta"},
	{"FLUIDOS", "presentacion_fluidos.docx", "memoria_fluidos.docx", `cliente\Instalaciones\Fluidos`},
	{"ELECTRICIDAD", "presentacion_electricidad.docx", "memoria_electricidad.docx", `cliente\Instalaciones\Electricidad`},
}

// Init creates the project directory structure and sample configuration.
// Existing configuration files are left alone.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	if _, err := os.Stat(mappingFile); os.IsNotExist(err) {
		if err := xlsx.WriteFile(mappingFile, "mapeo", sampleMapping); err != nil {
			return fmt.Errorf("writing %s: %w", mappingFile, err)
		}
		fmt.Println("  ", mappingFile)
	}
	if _, err := os.Stat(keywordsFile); os.IsNotExist(err) {
		var b strings.Builder
		for _, row := range sampleMapping[1:] {
			b.WriteString(row[0] + "\n")
		}
		if err := os.WriteFile(keywordsFile, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", keywordsFile, err)
		}
		fmt.Println("  ", keywordsFile)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "memoria-engine"
	cmdPkg  = "./cmd/memoria-engine"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check vets the code and runs the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Stats prints project metrics: Go production/test LOC and documentation
// word count.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports whether a directory is outside the project sources.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir)
}

// countGoLines counts non-blank lines in production and test Go files.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}

// countDocWords counts words in the project's Markdown files.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(bytes.Fields(data))
		return nil
	})
	return total, err
}
