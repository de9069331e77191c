package webservices

import (
	"net"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/semaphore"
	"github.com/jamesrr39/smappy/choropleth"
	"github.com/jamesrr39/smappy/fonts"
	"github.com/jamesrr39/smappy/mapconfig"
	"github.com/jamesrr39/smappy/mapdal"
	"github.com/jamesrr39/smappy/mapmodel"
	"github.com/jamesrr39/smappy/maprenderer"
	"github.com/jamesrr39/smappy/rendersink"
	"github.com/jamesrr39/smappy/styling"
)

const maxConcurrentRenders = 4

var contentTypes = map[rendersink.Format]string{
	rendersink.FormatPNG: "image/png",
	rendersink.FormatPDF: "application/pdf",
}

// RenderService renders YAML map descriptions posted to it. File paths in the description are relative to the data dir.
type RenderService struct {
	logger        *logpkg.Logger
	fs            gofs.Fs
	pathsConfig   *mapdal.PathsConfig
	renderer      *maprenderer.MapRenderer
	sema          *semaphore.Semaphore
	chi.Router
}

func NewRenderService(logger *logpkg.Logger, fs gofs.Fs, pathsConfig *mapdal.PathsConfig, renderer *maprenderer.MapRenderer) *RenderService {
	rs := &RenderService{logger, fs, pathsConfig, renderer, semaphore.NewSemaphore(maxConcurrentRenders), chi.NewRouter()}

	rs.Post("/", rs.handlePost)

	return rs
}

func (rs *RenderService) handlePost(w http.ResponseWriter, r *http.Request) {
	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = string(rendersink.FormatPNG)
	}

	format, err := rendersink.ParseFormat(formatName)
	if err != nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	description, err := mapconfig.Parse(r.Body)
	if err != nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	m, err := description.Build(rs.pathsConfig.ResolveDataPath)
	if err != nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Wrap(err), http.StatusBadRequest)
		return
	}

	rs.sema.Add()
	defer rs.sema.Done()

	outPath := filepath.Join(rs.pathsConfig.TempDir, uuid.New().String())

	path, err := rs.renderer.Render(r.Context(), m, format, outPath)
	if err != nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Wrap(err), statusCodeForRenderError(err))
		return
	}
	defer func() {
		removeErr := rs.fs.Remove(path)
		if removeErr != nil {
			rs.logger.Warn("couldn't remove rendered map %q: %s", path, removeErr)
		}
	}()

	data, readErr := rs.fs.ReadFile(path)
	if readErr != nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Wrap(readErr), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	_, writeErr := w.Write(data)
	if writeErr != nil {
		switch writeErr.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			rs.logger.Error("couldn't write rendered map to the response: %s", writeErr)
		}
	}
}

// statusCodeForRenderError tells apart maps that can't be rendered from failures of the server
func statusCodeForRenderError(err errorsx.Error) int {
	switch errorsx.Cause(err) {
	case mapmodel.ErrDegenerateView,
		choropleth.ErrEmptyDataSet,
		rendersink.ErrUnsupportedFormat,
		maprenderer.ErrUnsupportedLegendShape,
		mapdal.ErrUnsupportedSourceType,
		fonts.ErrFontNotFound,
		styling.ErrUnknownShape:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
