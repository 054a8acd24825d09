package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/meditrak/opsdash/internal/model"
)

// Load reads one configured source from under dataDir: folder sources
// concatenate every *.csv in the folder row-wise, file sources read a single
// reference CSV. The returned table is schema-checked against the source's
// required columns.
func Load(dataDir string, src model.Source) (*Table, error) {
	var (
		tbl *Table
		err error
	)
	if src.Dir != "" {
		tbl, err = readFolder(src.Name, filepath.Join(dataDir, src.Dir), src.SkipRows, src.Encoding)
	} else {
		tbl, err = readFile(src.Name, filepath.Join(dataDir, filepath.FromSlash(src.File)), src.SkipRows, src.Encoding)
	}
	if err != nil {
		return nil, err
	}
	if err := tbl.Require(src.Columns...); err != nil {
		return nil, err
	}
	return tbl, nil
}

// readFolder reads every CSV file in dir (sorted by name for a stable
// concatenation order) into one table keyed by the first file's header.
func readFolder(name, dir string, skipRows int, encoding string) (*Table, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("source %s: no CSV files in %s", name, dir)
	}
	sort.Strings(matches)

	var tbl *Table
	for _, path := range matches {
		header, rows, err := readCSV(path, skipRows, encoding)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		if tbl == nil {
			tbl = NewTable(name, header)
		}
		tbl.Append(header, rows)
	}
	return tbl, nil
}

func readFile(name, path string, skipRows int, encoding string) (*Table, error) {
	header, rows, err := readCSV(path, skipRows, encoding)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}
	tbl := NewTable(name, header)
	tbl.Append(header, rows)
	return tbl, nil
}

// readCSV reads one CSV file: optional leading rows are discarded, the next
// row is the header, everything after is data. Ragged rows are tolerated;
// the cleaners treat short rows as empty cells.
func readCSV(path string, skipRows int, encoding string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rd io.Reader = bufio.NewReaderSize(f, 256*1024)
	if encoding == "windows-1252" {
		rd = transform.NewReader(rd, charmap.Windows1252.NewDecoder())
	} else {
		// Skip UTF-8 BOM if present
		br := rd.(*bufio.Reader)
		if bom, err := br.Peek(3); err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
			br.Discard(3)
		}
	}

	r := csv.NewReader(rd)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	for i := 0; i < skipRows; i++ {
		if _, err := r.Read(); err != nil {
			return nil, nil, fmt.Errorf("skip header rows in %s: %w", filepath.Base(path), err)
		}
	}

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", filepath.Base(path), err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}
