package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/openrdm/dvmeta/pkg/crawl"
	"github.com/openrdm/dvmeta/pkg/errors"
)

// ReportData collects everything the run report needs beyond the crawl
// result itself.
type ReportData struct {
	BaseURL         string
	CollectionAlias string
	Version         string
	Authenticated   bool

	Start   time.Time
	End     time.Time
	Elapsed time.Duration

	Result *crawl.Result
}

// WriteReport renders the markdown run log into
// log_files/log_<timestamp>.md under the manager's export directory and
// returns its path.
func WriteReport(m *Manager, data ReportData) (string, error) {
	dir, err := m.EnsureSubdir("log_files")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("log_%s.md", m.Stamp()))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not create %s", path)
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)
	writeRunHeader(md, m, data)
	writeCounts(md, data.Result)
	writeManifest(md, m.Records())

	if err := md.Build(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, err, "could not write %s", path)
	}
	return path, nil
}

func writeRunHeader(md *markdown.Markdown, m *Manager, data ReportData) {
	auth := "no"
	if data.Authenticated {
		auth = "yes"
	}
	md.H1("Crawl Run Log")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", m.RunID().String()},
			{"Repository", data.BaseURL},
			{"Collection", data.CollectionAlias},
			{"Dataset version", data.Version},
			{"Authenticated", auth},
			{"Started", data.Start.Format(DisplayTimestamp)},
			{"Finished", data.End.Format(DisplayTimestamp)},
			{"Elapsed", data.Elapsed.Round(time.Second).String()},
		},
	})
	md.PlainText("")
}

func writeCounts(md *markdown.Markdown, res *crawl.Result) {
	if res == nil {
		return
	}

	fileCount, fileSize := countFiles(res.Metadata)

	md.H2("Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Collections crawled", strconv.Itoa(len(res.Flat) + 1)},
			{"Datasets discovered", strconv.Itoa(res.DatasetCount())},
			{"Datasets crawled (metadata)", strconv.Itoa(len(res.Metadata))},
			{"Deaccessioned / draft", strconv.Itoa(len(res.Deaccessioned))},
			{"Empty collections", strconv.Itoa(len(res.EmptyCollections))},
			{"Failed contents requests", strconv.Itoa(len(res.FailedContents))},
			{"Failed metadata requests", strconv.Itoa(len(res.FailedMeta))},
			{"Failed permission requests", strconv.Itoa(len(res.FailedPermissions))},
			{"Data files", strconv.Itoa(fileCount)},
			{"Total file size", ConvertSize(fileSize)},
		},
	})
	md.PlainText("")
}

func writeManifest(md *markdown.Markdown, records []Record) {
	md.H2("Exported Files")
	md.PlainText("")
	if len(records) == 0 {
		md.PlainText("No files were exported.")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Type, r.Path, r.Checksum})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Artifact", "Path", "SHA-256"},
		Rows:   rows,
	})
}

// countFiles totals the data files and bytes across all merged records.
func countFiles(merged map[string]*crawl.DatasetMetadata) (int, int64) {
	var count int
	var size int64
	for _, meta := range merged {
		for _, fe := range meta.Data.Files {
			count++
			if fe.DataFile != nil {
				size += fe.DataFile.Filesize
			}
		}
	}
	return count, size
}
