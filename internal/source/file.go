package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
)

// SnapshotFile is the on-disk shape of a snapshot export.
//
//	hosts:
//	  - id: "17"
//	    name: pc-accounting-01
//	    software: [7-Zip 23.01, Mozilla Firefox]
type SnapshotFile struct {
	Hosts []SnapshotHost `yaml:"hosts"`
}

// SnapshotHost lists the titles installed on one host.
type SnapshotHost struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Software []string `yaml:"software"`
}

// Records flattens the file into presence records, skipping blank titles.
func (f SnapshotFile) Records() []inventory.PresenceRecord {
	records := []inventory.PresenceRecord{}
	for _, h := range f.Hosts {
		host := inventory.HostRef{ID: h.ID, Name: h.Name}
		for _, title := range h.Software {
			if strings.TrimSpace(title) == "" {
				continue
			}
			records = append(records, inventory.PresenceRecord{Title: inventory.Title(title), Host: host})
		}
	}
	return records
}

// FileReader reads the snapshot from a YAML export.
type FileReader struct {
	Path string
}

// NewFileReader returns a reader for the export at path.
func NewFileReader(path string) *FileReader {
	return &FileReader{Path: path}
}

// ReadSnapshot loads and parses the export. The file is re-read on every call.
func (r *FileReader) ReadSnapshot(ctx context.Context) ([]inventory.PresenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", err)
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", err)
	}

	file, err := ParseSnapshot(data)
	if err != nil {
		return nil, inventory.SourceUnavailable("read snapshot", fmt.Errorf("%s: %w", r.Path, err))
	}
	return file.Records(), nil
}

// ParseSnapshot decodes a YAML snapshot export. Unknown fields are rejected.
func ParseSnapshot(data []byte) (SnapshotFile, error) {
	var file SnapshotFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return SnapshotFile{}, nil
		}
		return SnapshotFile{}, fmt.Errorf("parse snapshot: %w", err)
	}

	for i, h := range file.Hosts {
		if h.ID == "" && h.Name == "" {
			return SnapshotFile{}, fmt.Errorf("hosts[%d]: id or name is required", i)
		}
	}
	return file, nil
}
