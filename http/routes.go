package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/docframe"
	"github.com/go-chi/chi/v5"
)

// Template names served from the frame static root.
const (
	docsTemplate = "templates/docs.html"
	helpTemplate = "templates/help.html"
)

func (s *Server) routes() {
	r := s.router

	r.Get("/api/app/config", s.handleAppConfig)

	if s.config.Docs.Enabled {
		r.Get("/about", s.handleTemplate(docsTemplate))
		r.Get("/about.html", s.handleTemplate(docsTemplate))
		r.Get("/api/docs/structure", s.handleDocsStructure)
		r.Get("/api/docs/framework/*", s.handleFrameworkDocument)
		r.Get("/api/docs/*", s.handleDocsDocument)
		r.Get("/docs-assets/*", s.handleAsset(s.config.Docs.Key))
	}

	if s.config.Help.Enabled {
		r.Get("/help", s.handleTemplate(helpTemplate))
		r.Get("/help.html", s.handleTemplate(helpTemplate))
		r.Get("/api/help/structure", s.handleHelpStructure)
		r.Get("/api/help/*", s.handleHelpDocument)
	}

	r.Get("/api/custom/{name}/structure", s.handleCustomStructure)
	r.Get("/api/custom/{name}/*", s.handleCustomDocument)

	if s.frameStaticKey != "" {
		r.Get("/static/frame/*", s.handleAsset(s.frameStaticKey))
	}
	if s.staticKey != "" {
		r.Get("/static/*", s.handleAsset(s.staticKey))
	}

	if s.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler)
	}
}

// AppConfig is the client-facing application configuration.
type AppConfig struct {
	AppName     string   `json:"app_name"`
	BackLink    string   `json:"back_link"`
	BackText    string   `json:"back_text"`
	Features    Features `json:"features"`
	CustomRoots []string `json:"custom_roots"`
}

// Features lists the optional viewer features that are switched on.
type Features struct {
	Mermaid bool `json:"mermaid"`
	Docs    bool `json:"docs"`
	Help    bool `json:"help"`
}

func (s *Server) handleAppConfig(w http.ResponseWriter, r *http.Request) {
	roots := make([]string, 0, len(s.config.CustomRoots))
	for _, root := range s.config.CustomRoots {
		roots = append(roots, root.Name)
	}
	writeJSON(w, http.StatusOK, AppConfig{
		AppName:  s.config.AppName,
		BackLink: s.config.BackLink,
		BackText: s.config.BackText,
		Features: Features{
			Mermaid: s.config.Mermaid,
			Docs:    s.config.Docs.Enabled,
			Help:    s.config.Help.Enabled,
		},
		CustomRoots: roots,
	})
}

func (s *Server) handleDocsStructure(w http.ResponseWriter, r *http.Request) {
	st, err := s.documents.ListSections(r.Context(), s.config.Docs.SectionsRequest())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDocsDocument(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if p == "" {
		files, err := s.documents.ListAll(r.Context(), s.config.Docs.Key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"docs": files})
		return
	}
	s.serveDocument(w, r, s.config.Docs.Key, p, false, "Document not found: ")
}

func (s *Server) handleFrameworkDocument(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if s.config.Docs.FrameworkKey == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Document not found: " + p})
		return
	}
	s.serveDocument(w, r, s.config.Docs.FrameworkKey, p, true, "Document not found: ")
}

func (s *Server) handleHelpStructure(w http.ResponseWriter, r *http.Request) {
	list, err := s.documents.ListFiles(r.Context(), s.config.Help.Key, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHelpDocument(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "*")
	if p == "" {
		s.handleHelpStructure(w, r)
		return
	}
	s.serveDocument(w, r, s.config.Help.Key, p, false, "Help file not found: ")
}

func (s *Server) handleCustomStructure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	root, ok := s.config.CustomRoot(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown root: " + name})
		return
	}

	if root.Sections != nil {
		st, err := s.documents.ListSections(r.Context(), docframe.SectionsRequest{
			RootKey: root.Key,
			Defs:    root.Sections,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
		return
	}

	list, err := s.documents.ListFiles(r.Context(), root.Key, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCustomDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	root, ok := s.config.CustomRoot(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown root: " + name})
		return
	}
	s.serveDocument(w, r, root.Key, chi.URLParam(r, "*"), false, "Document not found: ")
}

// serveDocument writes a loaded document as JSON. Missing and rejected paths
// both answer 404 so clients cannot probe outside the root.
func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, key, p string, framework bool, notFound string) {
	c, err := s.documents.LoadDocument(r.Context(), key, p)
	if err != nil {
		switch docframe.ErrorCode(err) {
		case docframe.ENOTFOUND, docframe.EFORBIDDEN:
			writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound + p})
		default:
			writeError(w, err)
		}
		return
	}
	c.Framework = framework
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleTemplate(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.frameStaticKey == "" {
			http.Error(w, "Template not found: "+name, http.StatusNotFound)
			return
		}
		a, err := s.documents.OpenAsset(r.Context(), s.frameStaticKey, name)
		if err != nil {
			http.Error(w, "Template not found: "+name, ErrorStatus(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(a.Data)
	}
}

// handleAsset serves raw files from the root registered under key.
func (s *Server) handleAsset(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := chi.URLParam(r, "*")
		a, err := s.documents.OpenAsset(r.Context(), key, p)
		if err != nil {
			status := ErrorStatus(err)
			http.Error(w, http.StatusText(status), status)
			return
		}
		w.Header().Set("Content-Type", ContentType(a.Path))
		_, _ = w.Write(a.Data)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorStatus maps an application error code to an HTTP status.
func ErrorStatus(err error) int {
	switch docframe.ErrorCode(err) {
	case docframe.EINVALID:
		return http.StatusBadRequest
	case docframe.EFORBIDDEN:
		return http.StatusForbidden
	case docframe.ENOTFOUND:
		return http.StatusNotFound
	case docframe.ECONFLICT:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError writes the application message of err as JSON. Internal
// errors carry a generic message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, ErrorStatus(err), errorResponse{Error: docframe.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
