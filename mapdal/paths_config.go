package mapdal

import (
	"path/filepath"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/userextra"
)

type PathsConfig struct {
	// DataDir holds the geometry and raster files maps may refer to
	DataDir  string
	FontsDir string
	TraceDir string
	// TempDir holds rendered maps until they have been sent
	TempDir string
}

func NewPathsConfig(baseDir string) (*PathsConfig, errorsx.Error) {
	baseDir, err := userextra.ExpandUser(baseDir)
	if err != nil {
		return nil, errorsx.Wrap(err, "baseDir", baseDir)
	}

	return &PathsConfig{
		DataDir:  filepath.Join(baseDir, "data"),
		FontsDir: filepath.Join(baseDir, "fonts"),
		TraceDir: filepath.Join(baseDir, "traces"),
		TempDir:  filepath.Join(baseDir, "tmp"),
	}, nil
}

func (pc *PathsConfig) EnsurePaths(fs gofs.Fs) errorsx.Error {
	for _, dirPath := range []string{pc.DataDir, pc.FontsDir, pc.TraceDir, pc.TempDir} {
		err := fs.MkdirAll(dirPath, 0755)
		if err != nil {
			return errorsx.Wrap(err, "dirPath", dirPath)
		}
	}

	return nil
}

// ResolveDataPath resolves a path relative to the data dir. Paths leading outside of the data dir are rejected.
func (pc *PathsConfig) ResolveDataPath(path string) (string, errorsx.Error) {
	dataDir := filepath.Clean(pc.DataDir)
	resolved := filepath.Join(dataDir, filepath.Clean("/"+path))

	if resolved != dataDir && !strings.HasPrefix(resolved, dataDir+string(filepath.Separator)) {
		return "", errorsx.Errorf("path %q is outside of the data directory", path)
	}

	return resolved, nil
}
