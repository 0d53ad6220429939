package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"linkedin_post_generator/observability"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
`))

// Host serves a directory of generated applications. Directories fall back to
// their index.html and Markdown files are rendered to HTML.
type Host struct {
	root  http.FileSystem
	files http.Handler
}

func New(dir string) (*Host, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	root := http.Dir(dir)
	return &Host{root: root, files: http.FileServer(root)}, nil
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	upath := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(upath, ".md") {
		h.serveMarkdown(w, r, upath)
		return
	}
	h.files.ServeHTTP(w, r)
}

func (h *Host) serveMarkdown(w http.ResponseWriter, r *http.Request, name string) {
	f, err := h.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "cannot open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "cannot read file", http.StatusInternalServerError)
		return
	}
	page, err := RenderPage(strings.TrimSuffix(path.Base(name), ".md"), string(src))
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("render markdown", "path", name, "error", err)
		http.Error(w, "cannot render file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

// RenderMarkdown converts Markdown to an HTML fragment.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPage wraps the rendered Markdown in a standalone HTML document.
func RenderPage(title, src string) (string, error) {
	body, err := RenderMarkdown(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
