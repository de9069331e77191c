package mapconfig

import (
	"io"
	"path/filepath"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"gopkg.in/yaml.v3"
)

// Description is a map, as written in a YAML map description file
type Description struct {
	View         ViewConfig                   `yaml:"view"`
	Background   string                       `yaml:"background"`
	Shapes       []ShapeConfig                `yaml:"shapes"`
	Rasters      []RasterConfig               `yaml:"rasters"`
	Choropleths  []ChoroplethConfig           `yaml:"choropleths"`
	MarkerStyles map[string]MarkerStyleConfig `yaml:"markerStyles"`
	TextStyles   map[string]TextStyleConfig   `yaml:"textStyles"`
	Markers      []MarkerConfig               `yaml:"markers"`
	Labels       []LabelConfig                `yaml:"labels"`
	Legend       *LegendConfig                `yaml:"legend"`
}

type ViewConfig struct {
	West   float64 `yaml:"west"`
	East   float64 `yaml:"east"`
	South  float64 `yaml:"south"`
	North  float64 `yaml:"north"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

type DashConfig struct {
	Length float64 `yaml:"length"`
	Gap    float64 `yaml:"gap"`
}

type LineConfig struct {
	Color string      `yaml:"color"`
	Width float64     `yaml:"width"`
	Dash  *DashConfig `yaml:"dash"`
}

type SelectorConfig struct {
	Property string      `yaml:"property"`
	Value    interface{} `yaml:"value"`
}

type ShapeConfig struct {
	File      string           `yaml:"file"`
	Line      *LineConfig      `yaml:"line"`
	Fill      string           `yaml:"fill"`
	Opacity   *float64         `yaml:"opacity"`
	Selectors []SelectorConfig `yaml:"selectors"`
}

type ColorStopConfig struct {
	Value float64 `yaml:"value"`
	Color string  `yaml:"color"`
}

type RasterConfig struct {
	File  string            `yaml:"file"`
	Stops []ColorStopConfig `yaml:"stops"`
}

type RegionConfig struct {
	Property string      `yaml:"property"`
	Value    interface{} `yaml:"value"`
	// Data is the value the region is colored by. Regions without data get the undefined color.
	Data *float64 `yaml:"data"`
}

type ChoroplethConfig struct {
	File           string         `yaml:"file"`
	Regions        []RegionConfig `yaml:"regions"`
	Levels         int            `yaml:"levels"`
	UndefinedColor string         `yaml:"undefinedColor"`
	Line           *LineConfig    `yaml:"line"`
}

type TextStyleConfig struct {
	Font       string  `yaml:"font"`
	Size       float64 `yaml:"size"`
	Fill       string  `yaml:"fill"`
	Halo       string  `yaml:"halo"`
	HaloRadius float64 `yaml:"haloRadius"`
}

type MarkerStyleConfig struct {
	Shape string      `yaml:"shape"`
	Fill  string      `yaml:"fill"`
	Scale float64     `yaml:"scale"`
	Title string      `yaml:"title"`
	Text  string      `yaml:"text"`
	Line  *LineConfig `yaml:"line"`
	Label string      `yaml:"label"`
}

type MarkerConfig struct {
	Lat    float64     `yaml:"lat"`
	Lng    float64     `yaml:"lng"`
	Title  string      `yaml:"title"`
	Marker string      `yaml:"marker"`
	Data   interface{} `yaml:"data"`
}

type LabelConfig struct {
	Text  string  `yaml:"text"`
	Lat   float64 `yaml:"lat"`
	Lng   float64 `yaml:"lng"`
	Style string  `yaml:"style"`
}

type LegendConfig struct {
	Vertical   string  `yaml:"vertical"`
	Horizontal string  `yaml:"horizontal"`
	Scale      float64 `yaml:"scale"`
	// SortKey is "label", "id" or empty for the order the symbols were added in
	SortKey string `yaml:"sortKey"`
}

// Parse decodes a map description. Unknown keys are an error.
func Parse(reader io.Reader) (*Description, errorsx.Error) {
	description := new(Description)

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	err := decoder.Decode(description)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return description, nil
}

// Load reads the map description file at path
func Load(fs gofs.Fs, path string) (*Description, errorsx.Error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	description, parseErr := Parse(file)
	if parseErr != nil {
		return nil, errorsx.Wrap(parseErr, "path", path)
	}

	return description, nil
}

// PathResolver turns a file path from a description into a path that can be opened
type PathResolver func(path string) (string, errorsx.Error)

// RelativeTo resolves relative paths against dir. Absolute paths are kept as they are.
func RelativeTo(dir string) PathResolver {
	return func(path string) (string, errorsx.Error) {
		if path == "" {
			return "", errorsx.Errorf("no file path given")
		}
		if filepath.IsAbs(path) {
			return path, nil
		}
		return filepath.Join(dir, path), nil
	}
}
