package tablexport

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ExportProfile is a reusable export configuration, typically loaded from a
// YAML file. Zero values leave the corresponding option at its default.
type ExportProfile struct {
	Filename      string   `yaml:"filename"`
	Format        string   `yaml:"format"`
	Columns       []Column `yaml:"columns"`
	IndentColumn  string   `yaml:"indentColumn"`
	ChildrenKey   string   `yaml:"childrenKey"`
	WithBOM       bool     `yaml:"withBom"`
	ExcludeHidden bool     `yaml:"excludeHidden"`
	FreezeRows    *int     `yaml:"freezeRows"`
	FreezeCols    *int     `yaml:"freezeCols"`
	AutoWidth     bool     `yaml:"autoWidth"`
	SheetName     string   `yaml:"sheetName"`
	ChunkSize     int      `yaml:"chunkSize"`
}

// LoadProfile reads a YAML export profile.
func LoadProfile(r io.Reader) (*ExportProfile, error) {
	var p ExportProfile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse export profile: %w", err)
	}
	if p.Format != "" {
		if _, err := ParseFormat(p.Format); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Options converts the profile to the equivalent option list.
func (p *ExportProfile) Options() []Option {
	var opts []Option
	if p.Filename != "" {
		opts = append(opts, WithFilename(p.Filename))
	}
	if p.Format != "" {
		if f, err := ParseFormat(p.Format); err == nil {
			opts = append(opts, WithFormat(f))
		}
	}
	if p.IndentColumn != "" {
		opts = append(opts, WithIndentColumn(p.IndentColumn))
	}
	if p.ChildrenKey != "" {
		opts = append(opts, WithChildrenKey(p.ChildrenKey))
	}
	if p.WithBOM {
		opts = append(opts, WithBOM(true))
	}
	if p.ExcludeHidden {
		opts = append(opts, WithExcludeHidden(true))
	}
	if p.FreezeRows != nil || p.FreezeCols != nil {
		rows, cols := 0, 0
		if p.FreezeRows != nil {
			rows = *p.FreezeRows
		}
		if p.FreezeCols != nil {
			cols = *p.FreezeCols
		}
		opts = append(opts, WithFreezePanes(rows, cols))
	}
	if p.AutoWidth {
		opts = append(opts, WithAutoColumnWidths(true))
	}
	if p.SheetName != "" {
		opts = append(opts, WithSheetName(p.SheetName))
	}
	if p.ChunkSize > 0 {
		opts = append(opts, WithChunkSize(p.ChunkSize))
	}
	return opts
}
