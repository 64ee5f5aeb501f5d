package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fish-not-phish/eido/pkg/errors"
)

type iconsResponse struct {
	Icons []string `json:"icons"`
}

func (s *Server) handleListIcons(w http.ResponseWriter, r *http.Request) {
	names, err := s.opts.Icons.List()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "failed to list icons"))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, iconsResponse{Icons: names})
}

func (s *Server) handleIcon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateIconName(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	data := s.opts.Icons.Lookup(name)
	if len(data) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeIconNotFound, "icon %q not found", name))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
