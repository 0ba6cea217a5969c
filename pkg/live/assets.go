package live

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

//go:embed assets/index.html assets/live.js
var assetFS embed.FS

var (
	liveJS     = mustAsset("assets/live.js")
	liveJSETag = etag(liveJS)
	pageTmpl   = template.Must(template.New("index.html").Parse(string(mustAsset("assets/index.html"))))
)

func mustAsset(name string) []byte {
	b, err := assetFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return b
}

func etag(b []byte) string {
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}

// Script returns the browser client.
func Script() []byte { return liveJS }

// PageOptions configures the HTML shell served by PageHandler.
type PageOptions struct {
	Title string
	// LivePath is the WebSocket endpoint, e.g. "/live".
	LivePath string
	// ScriptPath is where ScriptHandler is mounted, e.g. "/live.js".
	ScriptPath string
	// Debug makes the client log every frame to the console.
	Debug bool
}

// PageHandler serves the HTML shell that loads the client and connects to
// the live endpoint.
func PageHandler(opts PageOptions) http.Handler {
	if opts.Title == "" {
		opts.Title = "Student Registry"
	}
	if opts.LivePath == "" {
		opts.LivePath = "/live"
	}
	if opts.ScriptPath == "" {
		opts.ScriptPath = "/live.js"
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, opts); err != nil {
		panic(err)
	}
	page := buf.Bytes()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(page)
		}
	})
}

// ScriptHandler serves live.js with an ETag. With noCache set the client is
// never cached, for development.
func ScriptHandler(noCache bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("ETag", liveJSETag)
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if noCache {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		}

		if etagMatches(r.Header.Get("If-None-Match"), liveJSETag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(liveJS)
		}
	})
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		c := strings.TrimSpace(part)
		if c == "*" || c == tag || strings.TrimPrefix(c, "W/") == tag {
			return true
		}
	}
	return false
}
