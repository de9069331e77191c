package mapdal

import (
	"bufio"
	"bytes"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"golang.org/x/image/tiff"
)

// openTIFFDataset reads a single band TIFF. It is placed on the map by its world file
// (same name, with a .tfw or .tifw extension). Values are the gray levels of the image.
func openTIFFDataset(fs gofs.Fs, path string) (*gridDataset, errorsx.Error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	img, err := tiff.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	transform, tErr := readWorldFile(fs, path)
	if tErr != nil {
		return nil, tErr
	}

	bounds := img.Bounds()
	transform.Rows = bounds.Dy()
	transform.Cols = bounds.Dx()

	values := make([]float64, 0, transform.Rows*transform.Cols)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			values = append(values, grayValue(img, x, y))
		}
	}

	return &gridDataset{
		geoTransform: transform,
		values:       values,
	}, nil
}

func grayValue(img image.Image, x, y int) float64 {
	switch typedImg := img.(type) {
	case *image.Gray16:
		return float64(typedImg.Gray16At(x, y).Y)
	case *image.Gray:
		return float64(typedImg.GrayAt(x, y).Y)
	default:
		return float64(color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y)
	}
}

// world file lines: cell width, row rotation, column rotation, cell height, x and y of the centre of the top left cell
func readWorldFile(fs gofs.Fs, tiffPath string) (geoTransform, errorsx.Error) {
	base := strings.TrimSuffix(tiffPath, filepath.Ext(tiffPath))

	var (
		data []byte
		err  error
	)
	for _, ext := range []string{".tfw", ".tifw", ".TFW"} {
		data, err = fs.ReadFile(base + ext)
		if err == nil {
			break
		}
	}
	if err != nil {
		return geoTransform{}, errorsx.Wrap(err, "tiffPath", tiffPath)
	}

	var params []float64
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return geoTransform{}, errorsx.Wrap(err, "tiffPath", tiffPath)
		}
		params = append(params, v)
	}

	if len(params) != 6 {
		return geoTransform{}, errorsx.Errorf("world file for %q: expected 6 values, but found %d", tiffPath, len(params))
	}

	cellWidth, rowRotation, colRotation, cellHeight, centerX, centerY := params[0], params[1], params[2], params[3], params[4], params[5]
	if rowRotation != 0 || colRotation != 0 {
		return geoTransform{}, errorsx.Errorf("world file for %q: rotated rasters are not supported", tiffPath)
	}
	if cellWidth == 0 || cellHeight == 0 || math.IsNaN(cellWidth) || math.IsNaN(cellHeight) {
		return geoTransform{}, errorsx.Errorf("world file for %q: invalid cell size", tiffPath)
	}

	return geoTransform{
		West:       centerX - cellWidth/2,
		North:      centerY - cellHeight/2,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}
