package dataverse

import (
	"encoding/json"
	"regexp"

	"github.com/openrdm/dvmeta/pkg/errors"
)

// CollectionNode is one node of the collection hierarchy returned by the
// tree metrics endpoint. Children is nil for leaf collections.
type CollectionNode struct {
	ID       int              `json:"id"`
	OwnerID  int              `json:"ownerId,omitempty"`
	Alias    string           `json:"alias,omitempty"`
	Depth    int              `json:"depth,omitempty"`
	Name     string           `json:"name"`
	Children []CollectionNode `json:"children,omitempty"`
}

// TreeResponse is the envelope of the collection tree endpoint.
type TreeResponse struct {
	Status string         `json:"status"`
	Data   CollectionNode `json:"data"`
}

// ContentItem is one entry of a collection's contents listing. Type is
// either "dataverse" or "dataset"; the persistent identifier fields are
// only populated for datasets.
type ContentItem struct {
	ID              int    `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title,omitempty"`
	Protocol        string `json:"protocol,omitempty"`
	Authority       string `json:"authority,omitempty"`
	Identifier      string `json:"identifier,omitempty"`
	PersistentURL   string `json:"persistentUrl,omitempty"`
	StorageID       string `json:"storageIdentifier,omitempty"`
	PublicationDate string `json:"publicationDate,omitempty"`
}

// ContentsResponse is the envelope of the collection contents endpoint.
type ContentsResponse struct {
	Status string        `json:"status"`
	Data   []ContentItem `json:"data"`
}

// License names the license attached to a dataset version.
type License struct {
	Name string `json:"name,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// MetadataField is one field of a metadata block. Value is left raw
// because Dataverse encodes it as a string, a list of strings, or a list
// of compound objects depending on the field; use [MetadataBlock.Strings]
// and [MetadataBlock.Compound] to extract values.
type MetadataField struct {
	TypeName  string          `json:"typeName"`
	Multiple  bool            `json:"multiple,omitempty"`
	TypeClass string          `json:"typeClass,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// MetadataBlock is a named group of metadata fields (citation,
// geospatial, socialscience, ...).
type MetadataBlock struct {
	DisplayName string          `json:"displayName,omitempty"`
	Fields      []MetadataField `json:"fields"`
}

// field returns the raw field with the given typeName, or nil.
func (b MetadataBlock) field(typeName string) *MetadataField {
	for i := range b.Fields {
		if b.Fields[i].TypeName == typeName {
			return &b.Fields[i]
		}
	}
	return nil
}

// Strings extracts a field's value as a list of strings. Single-valued
// fields yield a one-element list; a missing field yields nil.
func (b MetadataBlock) Strings(typeName string) []string {
	f := b.field(typeName)
	if f == nil || len(f.Value) == 0 {
		return nil
	}
	var many []string
	if err := json.Unmarshal(f.Value, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(f.Value, &one); err == nil {
		return []string{one}
	}
	return nil
}

// Compound extracts a sub-field from each element of a compound field.
// For a field like author, Compound("author", "authorName") returns the
// authorName value of every author entry that has one.
func (b MetadataBlock) Compound(typeName, subField string) []string {
	f := b.field(typeName)
	if f == nil || len(f.Value) == 0 {
		return nil
	}
	var entries []map[string]MetadataField
	if err := json.Unmarshal(f.Value, &entries); err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		sub, ok := entry[subField]
		if !ok || len(sub.Value) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(sub.Value, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// DataFile is the inner file object of a FileEntry.
type DataFile struct {
	ID          int      `json:"id"`
	Filename    string   `json:"filename"`
	ContentType string   `json:"contentType,omitempty"`
	Filesize    int64    `json:"filesize"`
	Description string   `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	StorageID   string   `json:"storageIdentifier,omitempty"`
	MD5         string   `json:"md5,omitempty"`
	PID         string   `json:"persistentId,omitempty"`
}

// FileEntry is one file attached to a dataset version.
type FileEntry struct {
	Label          string    `json:"label,omitempty"`
	DirectoryLabel *string   `json:"directoryLabel,omitempty"`
	Restricted     bool      `json:"restricted,omitempty"`
	Version        int       `json:"version,omitempty"`
	DataFile       *DataFile `json:"dataFile,omitempty"`
}

// DatasetVersion is the representation/file metadata of one dataset at a
// specific version, as returned by the version-qualified endpoint.
type DatasetVersion struct {
	ID                  int                      `json:"id"`
	DatasetID           int                      `json:"datasetId"`
	DatasetPersistentID string                   `json:"datasetPersistentId"`
	VersionNumber       *int                     `json:"versionNumber,omitempty"`
	VersionMinorNumber  *int                     `json:"versionMinorNumber,omitempty"`
	VersionState        string                   `json:"versionState,omitempty"`
	LastUpdateTime      string                   `json:"lastUpdateTime,omitempty"`
	ReleaseTime         string                   `json:"releaseTime,omitempty"`
	CreateTime          string                   `json:"createTime,omitempty"`
	License             *License                 `json:"license,omitempty"`
	TermsOfUse          string                   `json:"termsOfUse,omitempty"`
	TermsOfAccess       string                   `json:"termsOfAccess,omitempty"`
	FileAccessRequest   bool                     `json:"fileAccessRequest,omitempty"`
	MetadataBlocks      map[string]MetadataBlock `json:"metadataBlocks,omitempty"`
	Files               []FileEntry              `json:"files,omitempty"`
}

// Citation returns the citation metadata block, which every dataset
// version carries. The zero block is returned when absent.
func (v DatasetVersion) Citation() MetadataBlock {
	return v.MetadataBlocks["citation"]
}

// DatasetVersionResponse is the envelope of the dataset version endpoint.
type DatasetVersionResponse struct {
	Status string         `json:"status"`
	Data   DatasetVersion `json:"data"`
}

// RoleAssignment is one role granted to a principal on a dataset.
type RoleAssignment struct {
	ID              int    `json:"id"`
	Assignee        string `json:"assignee"`
	RoleID          int    `json:"roleId"`
	RoleAlias       string `json:"_roleAlias"`
	DefinitionPoint int    `json:"definitionPointId,omitempty"`
}

// AssignmentsResponse is the envelope of the role assignments endpoint.
type AssignmentsResponse struct {
	Status string           `json:"status"`
	Data   []RoleAssignment `json:"data"`
}

// PermissionInfo holds the permission metadata attached to a merged
// dataset record. Status "NA" marks permission data that was never
// collected, as opposed to a dataset with zero assignments.
type PermissionInfo struct {
	Status string           `json:"status"`
	Data   []RoleAssignment `json:"data"`
}

// PermissionNA is the sentinel substituted when no permission data exists
// for a dataset. Downstream consumers must treat it as "not collected",
// never as "zero permissions".
func PermissionNA() PermissionInfo {
	return PermissionInfo{Status: "NA", Data: []RoleAssignment{}}
}

// versionRE matches numeric version selectors: "x" or "x.y".
var versionRE = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ValidateVersion checks a dataset version selector. Valid selectors are
// "draft", "latest", "latest-published", or a numeric "x" / "x.y".
func ValidateVersion(v string) error {
	switch v {
	case "draft", "latest", "latest-published":
		return nil
	}
	if versionRE.MatchString(v) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidVersion,
		"invalid version selector %q: must be draft, latest, latest-published, or x / x.y", v)
}
