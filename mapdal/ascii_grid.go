package mapdal

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
)

var asciiGridHeaderKeys = map[string]bool{
	"ncols":        true,
	"nrows":        true,
	"xllcorner":    true,
	"yllcorner":    true,
	"xllcenter":    true,
	"yllcenter":    true,
	"cellsize":     true,
	"nodata_value": true,
}

// openASCIIGrid reads an ESRI ASCII grid: a header of "key value" lines followed by the values, northern row first
func openASCIIGrid(fs gofs.Fs, path string) (*gridDataset, errorsx.Error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(bufio.ScanWords)

	header := make(map[string]float64)
	var values []float64
	var pendingKey string
	for scanner.Scan() {
		word := scanner.Text()

		if values == nil && pendingKey == "" && asciiGridHeaderKeys[strings.ToLower(word)] {
			pendingKey = strings.ToLower(word)
			continue
		}

		value, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return nil, errorsx.Wrap(err, "path", path, "word", word)
		}

		if pendingKey != "" {
			header[pendingKey] = value
			pendingKey = ""
			continue
		}

		values = append(values, value)
	}

	err = scanner.Err()
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	for _, required := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := header[required]; !ok {
			return nil, errorsx.Errorf("ascii grid %q: missing header %q", path, required)
		}
	}

	cols := int(header["ncols"])
	rows := int(header["nrows"])
	cellSize := header["cellsize"]
	if cols <= 0 || rows <= 0 || cellSize <= 0 {
		return nil, errorsx.Errorf("ascii grid %q: invalid size (%d cols, %d rows, cell size %f)", path, cols, rows, cellSize)
	}

	if len(values) != rows*cols {
		return nil, errorsx.Errorf("ascii grid %q: expected %d values, but found %d", path, rows*cols, len(values))
	}

	west, westOk := header["xllcorner"]
	if !westOk {
		center, ok := header["xllcenter"]
		if !ok {
			return nil, errorsx.Errorf("ascii grid %q: missing xllcorner or xllcenter", path)
		}
		west = center - cellSize/2
	}

	south, southOk := header["yllcorner"]
	if !southOk {
		center, ok := header["yllcenter"]
		if !ok {
			return nil, errorsx.Errorf("ascii grid %q: missing yllcorner or yllcenter", path)
		}
		south = center - cellSize/2
	}

	noData, hasNoData := header["nodata_value"]

	return &gridDataset{
		geoTransform: geoTransform{
			West:       west,
			North:      south + float64(rows)*cellSize,
			CellWidth:  cellSize,
			CellHeight: -cellSize,
			Rows:       rows,
			Cols:       cols,
		},
		values:    values,
		noData:    noData,
		hasNoData: hasNoData,
	}, nil
}
