package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/docframe"
	dfhttp "github.com/fwojciec/docframe/http"
	"github.com/fwojciec/docframe/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	docsKey      = "DOCS_DIR"
	helpKey      = "HELP_DIR"
	frameworkKey = "FRAMEWORK_DOCS_DIR"
	staticKey    = "STATIC_DIR"
	frameKey     = "FRAME_STATIC_DIR"
)

func testConfig() *docframe.Config {
	return &docframe.Config{
		AppName:  "Demo",
		BackLink: "/",
		BackText: "Home",
		Mermaid:  true,
		Docs: docframe.DocsConfig{
			Enabled:       true,
			Key:           docsKey,
			FrameworkKey:  frameworkKey,
			FrameworkName: "Framework",
			AutoDiscover:  true,
		},
		Help: docframe.HelpConfig{Enabled: true, Key: helpKey},
		CustomRoots: []docframe.CustomRoot{
			{Name: "notes", Key: "CUSTOM:notes"},
			{Name: "guides", Key: "CUSTOM:guides", Sections: []docframe.SectionDef{{Name: "Overview"}}},
		},
	}
}

// files is an in-memory DocumentService keyed by root and path.
func files(content map[string]map[string]string) *mock.DocumentService {
	load := func(key, p string) ([]byte, error) {
		if strings.Contains(p, "..") {
			return nil, docframe.Errorf(docframe.EFORBIDDEN, "path traversal not allowed: %s", p)
		}
		root, ok := content[key]
		if !ok {
			return nil, docframe.Errorf(docframe.ENOTFOUND, "root %s not available", key)
		}
		data, ok := root[p]
		if !ok {
			return nil, docframe.Errorf(docframe.ENOTFOUND, "%s not found", p)
		}
		return []byte(data), nil
	}
	return &mock.DocumentService{
		LoadDocumentFn: func(_ context.Context, key, p string) (*docframe.Content, error) {
			data, err := load(key, p)
			if err != nil {
				return nil, err
			}
			return &docframe.Content{Content: string(data), Path: p}, nil
		},
		OpenAssetFn: func(_ context.Context, key, p string) (*docframe.Asset, error) {
			data, err := load(key, p)
			if err != nil {
				return nil, err
			}
			return &docframe.Asset{Path: p, Data: data}, nil
		},
	}
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_AppConfig(t *testing.T) {
	t.Parallel()

	s := dfhttp.NewServer(testConfig(), &mock.DocumentService{})

	rec := serve(t, s, "/api/app/config")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	got := decode[dfhttp.AppConfig](t, rec)
	assert.Equal(t, dfhttp.AppConfig{
		AppName:     "Demo",
		BackLink:    "/",
		BackText:    "Home",
		Features:    dfhttp.Features{Mermaid: true, Docs: true, Help: true},
		CustomRoots: []string{"notes", "guides"},
	}, got)
}

// Story: Documentation API

func TestServer_DocsStructure(t *testing.T) {
	t.Parallel()

	t.Run("passes the docs configuration to the builder", func(t *testing.T) {
		t.Parallel()

		var got docframe.SectionsRequest
		docs := &mock.DocumentService{
			ListSectionsFn: func(_ context.Context, req docframe.SectionsRequest) (*docframe.Structure, error) {
				got = req
				return &docframe.Structure{Sections: []*docframe.Section{{
					Name:      "Overview",
					Documents: []*docframe.Document{{Path: "index.md", Title: "Home"}},
				}}}, nil
			},
		}
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/docs/structure")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, docsKey, got.RootKey)
		assert.Equal(t, frameworkKey, got.FrameworkKey)
		assert.False(t, got.DisableDiscovery)
		assert.JSONEq(t, `{"sections":[{"name":"Overview","docs":[{"path":"index.md","title":"Home"}]}]}`, rec.Body.String())
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			ListSectionsFn: func(context.Context, docframe.SectionsRequest) (*docframe.Structure, error) {
				return nil, errors.New("read directory /secret/path: permission denied")
			},
		}
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/docs/structure")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "/secret/path")
	})
}

func TestServer_DocsList(t *testing.T) {
	t.Parallel()

	docs := &mock.DocumentService{
		ListAllFn: func(_ context.Context, key string) ([]string, error) {
			assert.Equal(t, docsKey, key)
			return []string{"index.md", "platform/a.md"}, nil
		},
	}
	s := dfhttp.NewServer(testConfig(), docs)

	rec := serve(t, s, "/api/docs/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"docs":["index.md","platform/a.md"]}`, rec.Body.String())
}

func TestServer_DocsDocument(t *testing.T) {
	t.Parallel()

	docs := files(map[string]map[string]string{
		docsKey:      {"platform/a.md": "# A"},
		frameworkKey: {"go/index.md": "# Go"},
	})
	s := dfhttp.NewServer(testConfig(), docs)

	t.Run("loads a nested document", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/docs/platform/a.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":"# A","path":"platform/a.md"}`, rec.Body.String())
	})

	t.Run("loads framework documents from the framework root", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/docs/framework/go/index.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":"# Go","path":"go/index.md","framework":true}`, rec.Body.String())
	})

	t.Run("missing document is 404", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/docs/missing.md")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Document not found: missing.md"}`, rec.Body.String())
	})

	t.Run("rejected traversal is indistinguishable from missing", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/docs/../secret.md")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Document not found")
	})
}

func TestServer_DocsAssets(t *testing.T) {
	t.Parallel()

	docs := files(map[string]map[string]string{
		docsKey: {"img/logo.png": "PNG", "diagram.svg": "<svg/>"},
	})
	s := dfhttp.NewServer(testConfig(), docs)

	t.Run("serves with content type by extension", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/docs-assets/img/logo.png")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "PNG", rec.Body.String())
	})

	t.Run("traversal is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/docs-assets/../config.json")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing asset is 404", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/docs-assets/none.png")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// Story: Help API

func TestServer_Help(t *testing.T) {
	t.Parallel()

	docs := files(map[string]map[string]string{
		helpKey: {"index.md": "# Welcome"},
	})
	docs.ListFilesFn = func(_ context.Context, key string, includeDescription bool) (*docframe.FileList, error) {
		assert.Equal(t, helpKey, key)
		assert.True(t, includeDescription)
		return &docframe.FileList{Files: []*docframe.Document{
			{Path: "index.md", Title: "Welcome", Description: "Start here."},
		}}, nil
	}
	s := dfhttp.NewServer(testConfig(), docs)

	t.Run("structure is the flat listing", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"/api/help/structure", "/api/help/"} {
			rec := serve(t, s, target)

			assert.Equal(t, http.StatusOK, rec.Code, target)
			assert.JSONEq(t, `{"files":[{"path":"index.md","title":"Welcome","description":"Start here."}]}`, rec.Body.String(), target)
		}
	})

	t.Run("loads a help file", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/help/index.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":"# Welcome","path":"index.md"}`, rec.Body.String())
	})

	t.Run("missing help file is 404", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/api/help/nope.md")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Help file not found: nope.md"}`, rec.Body.String())
	})
}

func TestServer_DisabledFeatures(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Docs.Enabled = false
	cfg.Help.Enabled = false
	s := dfhttp.NewServer(cfg, &mock.DocumentService{})

	for _, target := range []string{"/about", "/api/docs/structure", "/api/docs/index.md", "/help", "/api/help/structure"} {
		rec := serve(t, s, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}

// Story: Custom Roots

func TestServer_CustomRoots(t *testing.T) {
	t.Parallel()

	t.Run("flat root lists files", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			ListFilesFn: func(_ context.Context, key string, _ bool) (*docframe.FileList, error) {
				assert.Equal(t, "CUSTOM:notes", key)
				return &docframe.FileList{Files: []*docframe.Document{{Path: "a.md", Title: "A"}}}, nil
			},
		}
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/custom/notes/structure")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"files":[{"path":"a.md","title":"A"}]}`, rec.Body.String())
	})

	t.Run("sectioned root lists sections", func(t *testing.T) {
		t.Parallel()

		var got docframe.SectionsRequest
		docs := &mock.DocumentService{
			ListSectionsFn: func(_ context.Context, req docframe.SectionsRequest) (*docframe.Structure, error) {
				got = req
				return &docframe.Structure{Sections: []*docframe.Section{}}, nil
			},
		}
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/custom/guides/structure")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "CUSTOM:guides", got.RootKey)
		assert.Equal(t, []docframe.SectionDef{{Name: "Overview"}}, got.Defs)
	})

	t.Run("loads a document", func(t *testing.T) {
		t.Parallel()

		docs := files(map[string]map[string]string{"CUSTOM:notes": {"a.md": "# A"}})
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/custom/notes/a.md")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"content":"# A","path":"a.md"}`, rec.Body.String())
	})

	t.Run("unknown root is 404", func(t *testing.T) {
		t.Parallel()

		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{})

		rec := serve(t, s, "/api/custom/other/structure")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// Story: Static Files

func TestServer_Static(t *testing.T) {
	t.Parallel()

	docs := files(map[string]map[string]string{
		staticKey: {"icons/icon-192.svg": "<svg/>"},
		frameKey: {
			"templates/docs.html": "<html>docs</html>",
			"js/viewer.js":        "console.log(1)",
		},
	})
	s := dfhttp.NewServer(testConfig(), docs, dfhttp.WithStaticKeys(staticKey, frameKey))

	t.Run("serves the docs template", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"/about", "/about.html"} {
			rec := serve(t, s, target)

			assert.Equal(t, http.StatusOK, rec.Code, target)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, "<html>docs</html>", rec.Body.String())
		}
	})

	t.Run("missing template is 404", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/help")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("serves frame static files", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/static/frame/js/viewer.js")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("frame static traversal is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/static/frame/../secret")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("serves app static files", func(t *testing.T) {
		t.Parallel()

		rec := serve(t, s, "/static/icons/icon-192.svg")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	})
}

// Story: Middleware

func TestServer_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("assigns a request id", func(t *testing.T) {
		t.Parallel()

		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{})

		rec := serve(t, s, "/api/app/config")

		assert.NotEmpty(t, rec.Header().Get(dfhttp.RequestIDHeader))
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		t.Parallel()

		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{})
		req := httptest.NewRequest(http.MethodGet, "/api/app/config", nil)
		req.Header.Set(dfhttp.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(dfhttp.RequestIDHeader))
	})

	t.Run("logs api requests", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{}, dfhttp.WithLogger(logger))

		serve(t, s, "/api/app/config")

		output := buf.String()
		assert.Contains(t, output, "http request")
		assert.Contains(t, output, "path=/api/app/config")
		assert.Contains(t, output, "status=200")
	})

	t.Run("recovers from panics", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			ListSectionsFn: func(context.Context, docframe.SectionsRequest) (*docframe.Structure, error) {
				panic("boom")
			},
		}
		s := dfhttp.NewServer(testConfig(), docs)

		rec := serve(t, s, "/api/docs/structure")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("wraps routes with metrics middleware", func(t *testing.T) {
		t.Parallel()

		var seen []string
		mw := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = append(seen, r.URL.Path)
				next.ServeHTTP(w, r)
			})
		}
		exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "metrics")
		})
		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{}, dfhttp.WithMetrics(mw, exposition))

		rec := serve(t, s, "/metrics")

		assert.Equal(t, "metrics", rec.Body.String())
		assert.Equal(t, []string{"/metrics"}, seen)
	})
}

func TestServer_OpenClose(t *testing.T) {
	t.Parallel()

	s := dfhttp.NewServer(testConfig(), &mock.DocumentService{}, dfhttp.WithAddr("127.0.0.1:0"))
	require.NoError(t, s.Open())
	t.Cleanup(func() { _ = s.Close() })

	assert.NotZero(t, s.Port())
	assert.True(t, strings.HasPrefix(s.URL(), "http://127.0.0.1:"))

	resp, err := http.Get(s.URL() + "/api/app/config")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// failingListener is a listener whose Accept always fails.
type failingListener struct {
	net.Listener
}

func (failingListener) Accept() (net.Conn, error) {
	return nil, errors.New("accept failed")
}

func TestServer_Err(t *testing.T) {
	t.Parallel()

	t.Run("delivers the error that stopped serving", func(t *testing.T) {
		t.Parallel()

		// Given a listener that fails on the first accept
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{}, dfhttp.WithListener(failingListener{ln}))

		// When the server is opened
		require.NoError(t, s.Open())

		// Then the failure arrives on Err
		err = <-s.Err()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accept failed")
	})

	t.Run("closes after a clean shutdown", func(t *testing.T) {
		t.Parallel()

		s := dfhttp.NewServer(testConfig(), &mock.DocumentService{}, dfhttp.WithAddr("127.0.0.1:0"))
		require.NoError(t, s.Open())

		require.NoError(t, s.Close())

		err, open := <-s.Err()
		assert.NoError(t, err)
		assert.False(t, open)
	})
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{docframe.Errorf(docframe.EINVALID, "bad"), http.StatusBadRequest},
		{docframe.Errorf(docframe.EFORBIDDEN, "no"), http.StatusForbidden},
		{docframe.Errorf(docframe.ENOTFOUND, "gone"), http.StatusNotFound},
		{docframe.Errorf(docframe.ECONFLICT, "dup"), http.StatusConflict},
		{errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dfhttp.ErrorStatus(tt.err), tt.err.Error())
	}
}
