package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/openrdm/dvmeta/pkg/crawl"
	"github.com/openrdm/dvmeta/pkg/dataverse"
	"github.com/openrdm/dvmeta/pkg/errors"
)

// Spreadsheet projects merged dataset records into one CSV row each.
type Spreadsheet struct {
	urls dataverse.URLs
}

// NewSpreadsheet creates a Spreadsheet. The URL builder supplies each
// row's dataset landing-page link.
func NewSpreadsheet(urls dataverse.URLs) *Spreadsheet {
	return &Spreadsheet{urls: urls}
}

// WriteCSV renders all merged records into
// csv_files/ds_metadata_<timestamp>.csv under the manager's export
// directory and tracks the file in the manifest. Rows are ordered by
// persistent ID so repeated runs over identical data produce identical
// files.
func (s *Spreadsheet) WriteCSV(m *Manager, merged map[string]*crawl.DatasetMetadata) (string, error) {
	dir, err := m.EnsureSubdir("csv_files")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("ds_metadata_%s.csv", m.Stamp()))

	rows := make([]map[string]string, 0, len(merged))
	for _, meta := range merged {
		rows = append(rows, s.row(meta))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i]["DatasetPersistentId"] < rows[j]["DatasetPersistentId"]
	})

	header := columnOrder(rows)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}

	checksum, err := Checksum(path)
	if err != nil {
		return "", err
	}
	m.TrackFile(TypeSpreadsheet, path, checksum)
	return path, nil
}

// row flattens one merged record into column values.
func (s *Spreadsheet) row(meta *crawl.DatasetMetadata) map[string]string {
	data := meta.Data
	citation := data.Citation()
	row := make(map[string]string)

	for _, cf := range citationFields {
		var values []string
		if cf.SubField == "" {
			values = citation.Strings(cf.TypeName)
		} else {
			values = citation.Compound(cf.TypeName, cf.SubField)
		}
		row[cf.Column] = strings.Join(values, ", ")
	}

	row["DS_Path"] = datasetPath(meta)
	row["DatasetPersistentId"] = data.DatasetPersistentID
	row["ID"] = strconv.Itoa(data.ID)
	row["DatasetId"] = strconv.Itoa(data.DatasetID)
	row["VersionState"] = data.VersionState
	row["LastUpdateTime"] = data.LastUpdateTime
	row["ReleaseTime"] = data.ReleaseTime
	row["CreateTime"] = data.CreateTime
	if data.License != nil {
		row["License"] = data.License.Name
	}
	row["TermsOfUse"] = data.TermsOfUse
	row["TermsAccess"] = data.TermsOfAccess
	row["RequestAccess"] = strconv.FormatBool(data.FileAccessRequest)
	row["Version"] = datasetVersion(data)
	row["DatasetURL"] = s.urls.DatasetPage(data.DatasetPersistentID)

	addFileColumns(row, data)
	row["CM_NumberAuthors"] = strconv.Itoa(len(citation.Compound("author", "authorName")))
	addSubjectColumns(row, citation.Strings("subject"))
	for _, bc := range blockColumns {
		_, ok := data.MetadataBlocks[bc.Block]
		row[bc.Column] = strconv.FormatBool(ok)
	}
	addPermissionColumns(row, meta.PermissionInfo)

	return row
}

// datasetPath renders the hierarchy position: datasets without path info
// live directly in the crawled root and render as "root".
func datasetPath(meta *crawl.DatasetMetadata) string {
	if meta.PathInfo == nil || meta.PathInfo.Path == nil {
		return "root"
	}
	return *meta.PathInfo.Path
}

// datasetVersion combines major and minor version into "x.y". Records
// without both components (drafts) render as "Error".
func datasetVersion(data dataverse.DatasetVersion) string {
	if data.VersionNumber == nil || data.VersionMinorNumber == nil {
		return "Error"
	}
	return fmt.Sprintf("%d.%d", *data.VersionNumber, *data.VersionMinorNumber)
}

func addFileColumns(row map[string]string, data dataverse.DatasetVersion) {
	if data.Files == nil {
		row["FileSize"] = "Error"
		row["FileSize_normalized"] = "Error"
		row["FileCount"] = "Error"
		row["RestrictedFiles"] = "Error"
		row["DF_Hierarchy"] = "0"
		row["DF_Tags"] = "0"
		row["DF_Description"] = "0"
		return
	}

	var size int64
	var restricted, hierarchy, tags, descriptions int
	for _, fe := range data.Files {
		if fe.Restricted {
			restricted++
		}
		if fe.DirectoryLabel != nil {
			hierarchy++
		}
		if fe.DataFile != nil {
			size += fe.DataFile.Filesize
			if fe.DataFile.Categories != nil {
				tags++
			}
			if fe.DataFile.Description != "" {
				descriptions++
			}
		}
	}

	row["FileSize"] = strconv.FormatInt(size, 10)
	row["FileSize_normalized"] = ConvertSize(size)
	row["FileCount"] = strconv.Itoa(len(data.Files))
	row["RestrictedFiles"] = strconv.Itoa(restricted)
	row["DF_Hierarchy"] = strconv.Itoa(hierarchy)
	row["DF_Tags"] = strconv.Itoa(tags)
	row["DF_Description"] = strconv.Itoa(descriptions)
}

func addSubjectColumns(row map[string]string, subjects []string) {
	for _, sc := range subjectColumns {
		row[sc.Column] = strconv.FormatBool(slices.Contains(subjects, sc.Subject))
	}
}

// addPermissionColumns fills the per-role counts. Records carrying the
// NA sentinel (or no permission info at all) get "NA" counts, keeping
// "not collected" distinguishable from zero assignments.
func addPermissionColumns(row map[string]string, info *dataverse.PermissionInfo) {
	if info == nil || info.Status == "NA" {
		row["DS_Permission"] = "false"
		row["DS_Collab"] = "NA"
		for _, rc := range roleColumns {
			row[rc.Column] = "NA"
		}
		return
	}

	row["DS_Permission"] = "true"
	row["DS_Collab"] = strconv.Itoa(len(info.Data))
	counts := make(map[string]int)
	for _, a := range info.Data {
		counts[a.RoleAlias]++
	}
	for _, rc := range roleColumns {
		row[rc.Column] = strconv.Itoa(counts[rc.Alias])
	}
}

// columnOrder builds the CSV header: the preset order first, then any
// remaining columns sorted by name.
func columnOrder(rows []map[string]string) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			present[col] = true
		}
	}

	header := make([]string, 0, len(present))
	for _, col := range presetColumnOrder() {
		if present[col] {
			header = append(header, col)
			delete(present, col)
		}
	}
	rest := make([]string, 0, len(present))
	for col := range present {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(header, rest...)
}

// presetColumnOrder is the canonical spreadsheet layout: identity and
// hierarchy first, citation metadata, file statistics, then flags and
// permission counts.
func presetColumnOrder() []string {
	cols := []string{
		"DatasetTitle", "DS_Path", "DatasetURL", "DatasetPersistentId",
		"ID", "DatasetId", "Version", "VersionState",
		"LastUpdateTime", "ReleaseTime", "CreateTime",
		"License", "TermsOfUse", "RequestAccess", "TermsAccess",
	}
	for _, cf := range citationFields[1:] {
		cols = append(cols, cf.Column)
	}
	cols = append(cols, "CM_NumberAuthors")
	for _, sc := range subjectColumns {
		cols = append(cols, sc.Column)
	}
	cols = append(cols,
		"FileSize", "FileSize_normalized", "FileCount", "RestrictedFiles",
		"DF_Hierarchy", "DF_Tags", "DF_Description")
	for _, bc := range blockColumns {
		cols = append(cols, bc.Column)
	}
	cols = append(cols, "DS_Permission", "DS_Collab")
	for _, rc := range roleColumns {
		cols = append(cols, rc.Column)
	}
	return cols
}
