package webservices

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/smappy/fonts"
	"github.com/jamesrr39/smappy/rendersink"
)

type InfoService struct {
	logger *logpkg.Logger
	chi.Router
}

func NewInfoService(logger *logpkg.Logger) *InfoService {
	ws := &InfoService{logger, chi.NewRouter()}
	ws.Get("/", ws.handleGet)

	return ws
}

type infoType struct {
	Formats     []rendersink.Format `json:"formats"`
	Fonts       []string            `json:"fonts"`
	DefaultFont string              `json:"defaultFont"`
}

func (ws *InfoService) handleGet(w http.ResponseWriter, r *http.Request) {
	fontNames, err := fonts.Names()
	if err != nil {
		errorsx.HTTPError(w, ws.logger, errorsx.Wrap(err), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, infoType{
		Formats:     rendersink.AllFormats,
		Fonts:       fontNames,
		DefaultFont: fonts.DefaultFontName,
	})
}
