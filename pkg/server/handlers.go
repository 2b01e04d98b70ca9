package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ledwall/pkg/buildinfo"
	"github.com/matzehuels/ledwall/pkg/errors"
	"github.com/matzehuels/ledwall/pkg/pipeline"
	"github.com/matzehuels/ledwall/pkg/project"
)

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// =============================================================================
// Catalog and layout
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Catalog.ModuleList())
}

func (s *Server) listProcessors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Catalog.ProcessorList())
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		return opts, err
	}
	return s.apply(opts), nil
}

// apply enforces server-wide settings on request options.
func (s *Server) apply(opts pipeline.Options) pipeline.Options {
	if s.strict {
		opts.Strict = true
	}
	opts.Logger = s.logger
	return opts
}

func (s *Server) computeLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.layout(w, r, opts)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	res, hit, err := s.runner.ComputeWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) renderLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts, chi.URLParam(r, "format"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.ComputeHit && result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// =============================================================================
// Projects
// =============================================================================

type projectRequest struct {
	Name   *string         `json:"name"`
	Config *project.Config `json:"config"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := project.EnsureDefault(r.Context(), s.store)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "name is required"))
		return
	}
	p, err := project.New(*req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Config != nil {
		p.Config = *req.Config
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) project(w http.ResponseWriter, r *http.Request) (*project.Project, bool) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return p, true
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.project(w, r); ok {
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	var req projectRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Config != nil {
		p.Config = *req.Config
	}
	if err := s.store.Save(r.Context(), p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) projectLayout(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.project(w, r); ok {
		s.layout(w, r, s.apply(p.Options()))
	}
}

func (s *Server) projectRender(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.project(w, r); ok {
		s.render(w, r, s.apply(p.Options()), chi.URLParam(r, "format"))
	}
}
