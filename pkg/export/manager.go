// Package export writes crawl artifacts to disk: per-type JSON files
// with checksums and a tracking manifest, the dataset metadata CSV, and
// the markdown run report.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/openrdm/dvmeta/pkg/errors"
)

// Artifact types accepted by [Manager.ExportJSON]. Each maps to a preset
// description in the tracking manifest.
const (
	TypeMetadata      = "ds_metadata"
	TypePIDs          = "pid_dict"
	TypeDeaccessioned = "pid_dict_dd"
	TypeFailedURIs    = "failed_metadata_uris"
	TypePermissions   = "permission_dict"
	TypeEmptyDV       = "empty_dv"
	TypeSpreadsheet   = "spreadsheet"
)

var descriptions = map[string]string{
	TypeMetadata:      "Dataset Metadata (Representation, File & Permission)",
	TypePIDs:          "Hierarchical Information of Datasets",
	TypeDeaccessioned: "Hierarchical Information of Datasets (deaccessioned/draft)",
	TypeFailedURIs:    "PIDs of Datasets Failed to be crawled (Representation & File)",
	TypePermissions:   "Dataset Metadata (Permission)",
	TypeEmptyDV:       "Empty Dataverses",
	TypeSpreadsheet:   "Dataset Metadata CSV",
}

// Record is one manifest entry: an artifact written to disk.
type Record struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// Manager writes JSON artifacts into a run's export directory and keeps
// the manifest of everything written. Each run gets its own identifier
// so report consumers can correlate artifacts.
type Manager struct {
	runID   uuid.UUID
	baseDir string
	stamp   string
	logger  *log.Logger
	records []Record
}

// NewManager creates a Manager rooted at baseDir. All artifacts of one
// run share a single filename timestamp taken at construction.
func NewManager(baseDir string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		runID:   uuid.New(),
		baseDir: baseDir,
		stamp:   time.Now().Format(FileTimestamp),
		logger:  logger,
	}
}

// RunID returns the identifier stamped into this run's manifest.
func (m *Manager) RunID() uuid.UUID { return m.runID }

// Records returns the manifest of artifacts written so far.
func (m *Manager) Records() []Record { return m.records }

// ExportJSON writes data as an indented JSON file named
// <exportType>_<timestamp>.json under the run's json_files directory and
// appends a manifest record with the file's SHA-256 checksum. Empty data
// (a nil or zero-length map or slice) writes nothing.
func (m *Manager) ExportJSON(data any, exportType string) error {
	if isEmpty(data) {
		m.logger.Info("nothing to export, skipping", "type", exportType)
		return nil
	}

	dir, err := m.ensureDir("json_files")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", exportType, m.stamp))

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "could not encode %s", exportType)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}

	checksum, err := Checksum(path)
	if err != nil {
		return err
	}

	m.track(exportType, path, checksum)
	m.logger.Info("exported JSON artifact", "type", exportType, "path", path, "sha256", checksum)
	return nil
}

// TrackFile appends a manifest record for an artifact written outside
// the manager, such as the spreadsheet or a tree rendering.
func (m *Manager) TrackFile(exportType, path, checksum string) {
	m.track(exportType, path, checksum)
}

// EnsureSubdir creates (if needed) and returns a subdirectory of the
// export base, for artifact writers that manage their own files.
func (m *Manager) EnsureSubdir(name string) (string, error) {
	return m.ensureDir(name)
}

// Stamp returns the run's shared filename timestamp.
func (m *Manager) Stamp() string { return m.stamp }

func (m *Manager) track(exportType, path, checksum string) {
	desc, ok := descriptions[exportType]
	if !ok {
		desc = "Export of " + exportType
	}
	m.records = append(m.records, Record{Type: desc, Path: path, Checksum: checksum})
}

func (m *Manager) ensureDir(sub string) (string, error) {
	dir := filepath.Join(m.baseDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not create export directory %s", dir)
	}
	return dir, nil
}

// Checksum returns the hex SHA-256 digest of the file at path.
func Checksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not checksum %s", path)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// isEmpty reports whether data is nil or an empty map or slice. Structs
// and scalars always export.
func isEmpty(data any) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr:
		return v.IsNil()
	default:
		return false
	}
}
