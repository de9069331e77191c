package fonts

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrFontNotFound = errors.New("font not found")

const DefaultFontName = "Go Regular"

var (
	initOnce sync.Once
	initErr  errorsx.Error

	mu sync.RWMutex
	// keyed by normalised name
	registry     = make(map[string]*truetype.Font)
	displayNames = make(map[string]string)
)

var builtinFonts = map[string][]byte{
	DefaultFontName: goregular.TTF,
	"Go Bold":       gobold.TTF,
	"Go Italic":     goitalic.TTF,
	"Go Mono":       gomono.TTF,
}

// Initialize registers the built in fonts. It is safe to call more than once; only the first call does anything.
func Initialize() errorsx.Error {
	initOnce.Do(func() {
		for name, fontBytes := range builtinFonts {
			err := register(name, fontBytes)
			if err != nil {
				initErr = err
				return
			}
		}
	})

	return initErr
}

func register(name string, fontBytes []byte) errorsx.Error {
	font, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return errorsx.Wrap(err, "fontName", name)
	}

	mu.Lock()
	defer mu.Unlock()

	registry[normaliseName(name)] = font
	displayNames[normaliseName(name)] = name

	return nil
}

// RegisterFontFile adds a TrueType font from disk. The font is registered under its file name, without the extension.
func RegisterFontFile(fs gofs.Fs, path string) (string, errorsx.Error) {
	fontBytes, err := fs.ReadFile(path)
	if err != nil {
		return "", errorsx.Wrap(err, "path", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	err = register(name, fontBytes)
	if err != nil {
		return "", errorsx.Wrap(err, "path", path)
	}

	return name, nil
}

// RegisterFontDir registers every .ttf file in a directory
func RegisterFontDir(fs gofs.Fs, dirPath string) ([]string, errorsx.Error) {
	fileInfos, err := fs.ReadDir(dirPath)
	if err != nil {
		return nil, errorsx.Wrap(err, "dirPath", dirPath)
	}

	var names []string
	for _, fileInfo := range fileInfos {
		if fileInfo.IsDir() || !strings.EqualFold(filepath.Ext(fileInfo.Name()), ".ttf") {
			continue
		}

		name, err := RegisterFontFile(fs, filepath.Join(dirPath, fileInfo.Name()))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, nil
}

// Lookup finds a font by name (case insensitive). An empty name gives the default font.
func Lookup(name string) (*truetype.Font, errorsx.Error) {
	err := Initialize()
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = DefaultFontName
	}

	mu.RLock()
	defer mu.RUnlock()

	font, ok := registry[normaliseName(name)]
	if !ok {
		return nil, errorsx.Wrap(ErrFontNotFound, "fontName", name)
	}

	return font, nil
}

// Names lists all registered fonts, in alphabetical order
func Names() ([]string, errorsx.Error) {
	err := Initialize()
	if err != nil {
		return nil, err
	}

	mu.RLock()
	defer mu.RUnlock()

	var names []string
	for _, name := range displayNames {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func normaliseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
