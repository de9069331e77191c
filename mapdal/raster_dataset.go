package mapdal

import (
	"errors"
	"math"
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
)

var ErrRasterIndexOutOfRange = errors.New("RasterIndexOutOfRange: cell outside of the raster")

// RasterDataset is a north-up grid of values. Row 0 is the northern edge, column 0 the western edge.
type RasterDataset interface {
	Size() (rows, cols int)
	CellAt(lng, lat float64) (row, col int)
	// CoordAt returns the centre of the cell
	CoordAt(row, col int) (lng, lat float64)
	ValueAt(row, col int) (float64, errorsx.Error)
	// NoDataValue is the value marking cells without data, if the dataset has one
	NoDataValue() (float64, bool)
	Close() errorsx.Error
}

// OpenRasterDataset opens an ESRI ASCII grid (.asc) or a GeoTIFF-style TIFF with a world file (.tif, .tiff)
func OpenRasterDataset(fs gofs.Fs, path string) (RasterDataset, errorsx.Error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc":
		return openASCIIGrid(fs, path)
	case ".tif", ".tiff":
		return openTIFFDataset(fs, path)
	default:
		return nil, errorsx.Wrap(ErrUnsupportedSourceType, "path", path)
	}
}

// geoTransform places a grid on the map. West and North are the outer edges of the first cell.
type geoTransform struct {
	West, North float64
	// CellWidth is positive, CellHeight is negative (rows go south)
	CellWidth, CellHeight float64
	Rows, Cols            int
}

func (gt geoTransform) Size() (int, int) {
	return gt.Rows, gt.Cols
}

func (gt geoTransform) CellAt(lng, lat float64) (int, int) {
	col := int(math.Floor((lng - gt.West) / gt.CellWidth))
	row := int(math.Floor((lat - gt.North) / gt.CellHeight))
	return row, col
}

func (gt geoTransform) CoordAt(row, col int) (float64, float64) {
	lng := gt.West + (float64(col)+0.5)*gt.CellWidth
	lat := gt.North + (float64(row)+0.5)*gt.CellHeight
	return lng, lat
}

func (gt geoTransform) checkIndex(row, col int) errorsx.Error {
	if row < 0 || col < 0 || row >= gt.Rows || col >= gt.Cols {
		return errorsx.Wrap(ErrRasterIndexOutOfRange, "row", row, "col", col, "rows", gt.Rows, "cols", gt.Cols)
	}
	return nil
}

// gridDataset is a fully loaded grid, stored row by row
type gridDataset struct {
	geoTransform
	values    []float64
	noData    float64
	hasNoData bool
}

func (d *gridDataset) ValueAt(row, col int) (float64, errorsx.Error) {
	err := d.checkIndex(row, col)
	if err != nil {
		return 0, err
	}

	return d.values[row*d.Cols+col], nil
}

func (d *gridDataset) NoDataValue() (float64, bool) {
	return d.noData, d.hasNoData
}

func (d *gridDataset) Close() errorsx.Error {
	d.values = nil
	return nil
}
