package webservices

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jamesrr39/goutil/gofs/mockfs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/mapdal"
	"github.com/jamesrr39/smappy/maprenderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareGeoJSON = `{"type": "Polygon", "coordinates": [[[5, 45], [10, 45], [10, 50], [5, 50], [5, 45]]]}`

const squareMap = `
view: {west: 5, east: 10, south: 45, north: 50, width: 100, height: 80}
shapes:
  - {file: square.geojson, fill: "#ff0000"}
`

func Test_InfoService(t *testing.T) {
	// fonts are registered on first use, not by the caller
	service := NewInfoService(logpkg.NewLogger(bytes.NewBuffer(nil), logpkg.LogLevelDebug))

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info struct {
		Formats     []string `json:"formats"`
		Fonts       []string `json:"fonts"`
		DefaultFont string   `json:"defaultFont"`
	}
	err := json.NewDecoder(rec.Body).Decode(&info)
	require.NoError(t, err)

	assert.Equal(t, []string{"png", "pdf"}, info.Formats)
	assert.Contains(t, info.Fonts, "Go Regular")
	assert.Equal(t, "Go Regular", info.DefaultFont)
}

func newTestRenderService(t *testing.T) (*RenderService, mockfs.MockFs, *mapdal.PathsConfig) {
	fs := mockfs.NewMockFs()

	pathsConfig, err := mapdal.NewPathsConfig("/srv/smappy")
	require.Nil(t, err)
	require.Nil(t, pathsConfig.EnsurePaths(fs))

	writeErr := fs.WriteFile("/srv/smappy/data/square.geojson", []byte(squareGeoJSON), 0600)
	require.NoError(t, writeErr)

	logger := logpkg.NewLogger(bytes.NewBuffer(nil), logpkg.LogLevelDebug)
	renderer := maprenderer.NewMapRenderer(logger, fs, mapdal.NewFileFeatureSource(fs), maprenderer.DefaultOptions())

	return NewRenderService(logger, fs, pathsConfig, renderer), fs, pathsConfig
}

func Test_RenderService(t *testing.T) {
	service, fs, pathsConfig := newTestRenderService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/?format=png", strings.NewReader(squareMap)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	leftovers, err := fs.ReadDir(pathsConfig.TempDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func Test_RenderService_pdf(t *testing.T) {
	service, _, _ := newTestRenderService(t)

	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/?format=pdf", strings.NewReader(squareMap)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func Test_RenderService_errors(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		body         string
		expectedCode int
	}{
		{"unsupported format", "?format=gif", squareMap, http.StatusBadRequest},
		{"not yaml", "", "{{{", http.StatusBadRequest},
		{"degenerate view", "", "view: {west: 5, east: 5, south: 45, north: 50, width: 100, height: 80}", http.StatusBadRequest},
		{"unsupported source type", "", "view: {west: 5, east: 10, south: 45, north: 50, width: 100, height: 80}\nshapes:\n  - {file: square.kml}\n", http.StatusBadRequest},
		{"missing file", "", "view: {west: 5, east: 10, south: 45, north: 50, width: 100, height: 80}\nshapes:\n  - {file: missing.geojson}\n", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestRenderService(t)

			rec := httptest.NewRecorder()
			service.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+tt.query, strings.NewReader(tt.body)))
			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
		})
	}
}
