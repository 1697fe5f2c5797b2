package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	ierrors "github.com/matzehuels/ifctree/pkg/errors"
	"github.com/matzehuels/ifctree/pkg/ifc"
	"github.com/matzehuels/ifctree/pkg/pipeline"
	"github.com/matzehuels/ifctree/pkg/props"
	"github.com/matzehuels/ifctree/pkg/render/nodelink"
	"github.com/matzehuels/ifctree/pkg/session"
)

type modelResponse struct {
	ID       ifc.ModelID     `json:"id"`
	Name     string          `json:"name,omitempty"`
	Entities int             `json:"entities"`
	Source   pipeline.Source `json:"source"`
}

type sessionRequest struct {
	Units   *bool `json:"units,omitempty"`
	Workers int   `json:"workers,omitempty"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	Units     bool   `json:"units"`
	ExpiresIn string `json:"expires_in"`
}

type materializeRequest struct {
	Selection map[string][]uint32 `json:"selection"`
}

type rowsResponse struct {
	Rows []*props.Row `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models := s.ws.Models()
	out := make([]modelResponse, len(models))
	for i, m := range models {
		out[i] = modelResponse{ID: m.Info.ID, Name: m.Info.Name, Entities: m.Info.Entities, Source: m.Source}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": out})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Workers < 0 {
		s.writeError(w, ierrors.New(ierrors.ErrCodeInvalidInput, "workers must not be negative"))
		return
	}

	opts := s.cfg.Options
	if req.Units != nil {
		opts.DisplayUnits = *req.Units
	}
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}
	sess := s.sessions.Create(s.ws.Materializer(opts.Props(s.logger)))
	s.sessionsChanged()
	s.logger.Debug("session created", "session", sess.ID)

	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		Units:     opts.DisplayUnits,
		ExpiresIn: s.sessions.TTL().String(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}
	s.sessionsChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.sessionsChanged()
		s.writeError(w, sessionError(id, err))
		return
	}

	var req materializeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sel, err := s.selection(req.Selection)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rows, err := sess.Materializer.Materialize(r.Context(), sel)
	if err != nil {
		s.writeError(w, ierrors.Wrap(ierrors.ErrCodeInternal, err, "materialize"))
		return
	}
	if rows == nil {
		rows = []*props.Row{}
	}
	writeJSON(w, http.StatusOK, rowsResponse{Rows: rows})
}

// selection validates a request selection against the loaded models.
func (s *Server) selection(in map[string][]uint32) (props.Selection, error) {
	sel := make(props.Selection, len(in))
	for model, handles := range in {
		id := ifc.ModelID(model)
		if _, ok := s.ws.Model(id); !ok {
			return nil, ierrors.New(ierrors.ErrCodeModelNotFound, "model %q is not loaded", model)
		}
		hs := make([]ifc.Handle, len(handles))
		for i, h := range handles {
			if h == 0 {
				return nil, ierrors.New(ierrors.ErrCodeInvalidInput, "handle 0 in model %q", model)
			}
			hs[i] = ifc.Handle(h)
		}
		sel[id] = hs
	}
	return sel, nil
}

func (s *Server) handleDecomposition(w http.ResponseWriter, r *http.Request) {
	model, h, err := s.entityParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	row := s.ws.Explorer(s.logger).Decomposition(r.Context(), model, h)
	if row == nil {
		s.writeError(w, ierrors.New(ierrors.ErrCodeEntityNotFound, "entity %s not found in %q", h, model))
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request) {
	model, h, err := s.entityParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ws.Explorer(s.logger).Attributes(r.Context(), model, h))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	model, h, err := s.entityParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	opts := s.cfg.Options
	opts.Format = q.Get("format")
	if v := q.Get("depth"); v != "" {
		if opts.Depth, err = strconv.Atoi(v); err != nil {
			s.writeError(w, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "depth"))
			return
		}
	}
	if v := q.Get("units"); v != "" {
		if opts.DisplayUnits, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "units"))
			return
		}
	}

	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, err)
		return
	}

	data, err := s.runner.Render(r.Context(), s.ws, model, []ifc.Handle{h}, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) entityParams(r *http.Request) (ifc.ModelID, ifc.Handle, error) {
	model := ifc.ModelID(chi.URLParam(r, "model"))
	if _, ok := s.ws.Model(model); !ok {
		return "", 0, ierrors.New(ierrors.ErrCodeModelNotFound, "model %q is not loaded", model)
	}
	h, err := ierrors.ParseHandle(chi.URLParam(r, "handle"))
	if err != nil {
		return "", 0, err
	}
	return model, ifc.Handle(h), nil
}

func sessionError(id string, err error) error {
	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
		return ierrors.Wrap(ierrors.ErrCodeSessionNotFound, err, "session %s", id)
	}
	return err
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case nodelink.FormatSVG:
		return "image/svg+xml"
	case nodelink.FormatPNG:
		return "image/png"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

// decodeBody decodes an optional JSON body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return ierrors.Wrap(ierrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

type errorBody struct {
	Code    ierrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := ierrors.HTTPStatus(err)
	code := ierrors.GetCode(err)
	if code == "" {
		code = ierrors.ErrCodeInternal
	}
	msg := ierrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		if code == ierrors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
