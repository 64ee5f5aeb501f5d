package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/pipeline"
	"github.com/fish-not-phish/eido/pkg/store"
)

type createFileRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	Source string `json:"source"`
}

// updateFileRequest leaves fields that are absent from the body untouched.
type updateFileRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Source *string `json:"source,omitempty"`
}

type fileSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type filesResponse struct {
	Files []fileSummary `json:"files"`
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req createFileRequest
	if err := decode(w, r, s.bodyLimit(), &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := store.NewFile(req.Name, req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if f.Document, err = s.renderDocument(r.Context(), f.Source); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.opts.Store.Create(r.Context(), f); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("file created", "id", f.ID, "name", f.Name)
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.opts.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := filesResponse{Files: make([]fileSummary, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, fileSummary{
			ID:        f.ID,
			Name:      f.Name,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateFile(w http.ResponseWriter, r *http.Request) {
	var req updateFileRequest
	if err := decode(w, r, s.bodyLimit(), &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := s.opts.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Name != nil {
		if err := errors.ValidateFileName(*req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
		f.Name = *req.Name
	}
	if req.Source != nil {
		doc, err := s.renderDocument(r.Context(), *req.Source)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		f.Source = *req.Source
		f.Document = doc
	}

	if err := s.opts.Store.Update(r.Context(), f); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.opts.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("file deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// renderDocument renders src to the Excalidraw scene stored with a file.
func (s *Server) renderDocument(ctx context.Context, src string) (json.RawMessage, error) {
	opts := s.renderOptions()
	opts.Format = pipeline.FormatExcalidraw
	res, err := s.opts.Runner.Execute(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(res.Artifact), nil
}
