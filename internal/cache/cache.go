// Package cache persists merged fact tables as Parquet files so the server
// and report commands can start from the last successful refresh without
// re-reading the raw exports.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/model"
)

const (
	ipFile   = "ip_fact.parquet"
	lineFile = "ip_lines.parquet"
	opFile   = "op_fact.parquet"
)

// Save writes the merge result to dir, replacing any previous snapshot.
// Each table is written to a temp file first and renamed into place so a
// crash mid-write never leaves a torn snapshot.
func Save(dir string, res *merge.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	ipRows := make([]ipRow, len(res.IP))
	for i, a := range res.IP {
		ipRows[i] = toIPRow(a)
	}
	if err := writeTable(dir, ipFile, ipRows); err != nil {
		return err
	}
	lineRows := make([]lineRow, len(res.IPLines))
	for i, l := range res.IPLines {
		lineRows[i] = toLineRow(l)
	}
	if err := writeTable(dir, lineFile, lineRows); err != nil {
		return err
	}
	opRows := make([]opRow, len(res.OP))
	for i, v := range res.OP {
		opRows[i] = toOPRow(v)
	}
	return writeTable(dir, opFile, opRows)
}

// Load reads the last saved snapshot from dir.
func Load(dir string) (*merge.Result, error) {
	ipRows, err := readTable[ipRow](dir, ipFile)
	if err != nil {
		return nil, err
	}
	lineRows, err := readTable[lineRow](dir, lineFile)
	if err != nil {
		return nil, err
	}
	opRows, err := readTable[opRow](dir, opFile)
	if err != nil {
		return nil, err
	}

	res := &merge.Result{
		IP:      make([]model.Admission, len(ipRows)),
		IPLines: make([]model.ChargeLine, len(lineRows)),
		OP:      make([]model.OPVisit, len(opRows)),
	}
	for i, r := range ipRows {
		res.IP[i] = fromIPRow(r)
	}
	for i, r := range lineRows {
		res.IPLines[i] = fromLineRow(r)
	}
	for i, r := range opRows {
		res.OP[i] = fromOPRow(r)
	}
	return res, nil
}

// Exists reports whether a snapshot is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ipFile))
	return err == nil
}

func writeTable[T any](dir, name string, rows []T) error {
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := parquet.NewGenericWriter[T](tmp)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("close %s writer: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, name))
}

func readTable[T any](dir, name string) ([]T, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", name, err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	out := make([]T, 0, reader.NumRows())
	buf := make([]T, 1024)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return out, nil
}
