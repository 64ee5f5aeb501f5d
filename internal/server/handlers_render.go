package server

import (
	"net/http"

	"github.com/fish-not-phish/eido/pkg/dsl"
	"github.com/fish-not-phish/eido/pkg/errors"
	"github.com/fish-not-phish/eido/pkg/pipeline"
)

// CacheHeader reports whether a rendered artifact came from the cache.
const CacheHeader = "X-Eido-Cache"

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatExcalidraw: "application/json",
	pipeline.FormatDOT:        "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:        "image/svg+xml",
}

type renderRequest struct {
	Source      string  `json:"source"`
	Format      string  `json:"format,omitempty" validate:"omitempty,oneof=excalidraw dot svg"`
	CanvasWidth float64 `json:"canvas_width,omitempty" validate:"gte=0"`
	Seed        uint64  `json:"seed,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
}

type parseRequest struct {
	Source string `json:"source"`
}

type parseResponse struct {
	Nodes       []dsl.Node       `json:"nodes"`
	Connections []dsl.Connection `json:"connections"`
	Stats       dsl.Stats        `json:"stats"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(w, r, s.bodyLimit(), &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.renderOptions()
	opts.Format = req.Format
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}
	opts.Detailed = req.Detailed
	if req.CanvasWidth > 0 {
		opts.CanvasWidth = req.CanvasWidth
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}

	res, err := s.opts.Runner.Execute(r.Context(), req.Source, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.Header().Set(CacheHeader, cacheStatus(res.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decode(w, r, s.bodyLimit(), &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateSource(req.Source, s.opts.MaxSourceBytes); err != nil {
		s.writeError(w, r, err)
		return
	}

	d := pipeline.Parse(r.Context(), req.Source)
	resp := parseResponse{
		Nodes:       d.Nodes,
		Connections: d.Connections,
		Stats:       d.Stats(),
	}
	if resp.Nodes == nil {
		resp.Nodes = []dsl.Node{}
	}
	if resp.Connections == nil {
		resp.Connections = []dsl.Connection{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// renderOptions returns the server's default pipeline options.
func (s *Server) renderOptions() pipeline.Options {
	return pipeline.Options{
		CanvasWidth: s.opts.CanvasWidth,
		Seed:        s.opts.Seed,
		Icons:       s.opts.Icons,
		IconSet:     s.opts.IconSet,
		Logger:      s.logger,
	}
}

// bodyLimit leaves room for JSON escaping around a maximal source.
func (s *Server) bodyLimit() int64 {
	if s.opts.MaxSourceBytes <= 0 {
		return 0
	}
	return int64(s.opts.MaxSourceBytes)*2 + 64<<10
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
