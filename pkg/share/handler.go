/*
 * Copyright 2025 Author(s) of Upshare
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package share

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/armon/go-metrics"
	"github.com/spf13/afero"
	"github.com/upshare/upshare/pkg/logging"
)

// index files served in place of a directory listing, in preference order.
var indexNames = []string{"index.html", "index.htm"}

// Handler serves a directory tree over HTTP and accepts multipart uploads
// into it. The server root is fixed at construction; every request path is
// sandboxed beneath it by Resolve.
type Handler struct {
	fs        afero.Fs
	root      string
	maxUpload int64
}

// NewHandler creates a Handler serving root from the given filesystem.
// maxUpload bounds the in-memory POST body size in bytes; zero or negative
// means no explicit bound beyond what the transport enforces.
func NewHandler(fs afero.Fs, root string, maxUpload int64) *Handler {
	return &Handler{fs: fs, root: root, maxUpload: maxUpload}
}

// ServeHTTP dispatches on the request method. GET and HEAD serve files and
// listings; POST accepts an upload. Everything else is rejected.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.serveContent(w, r)
	case http.MethodPost:
		h.serveUpload(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// serveContent handles GET and HEAD. Any filesystem failure, including a
// permission problem, is reported as 404 so that "absent" and "forbidden"
// are indistinguishable to the client.
func (h *Handler) serveContent(w http.ResponseWriter, r *http.Request) {
	// net/http has already decoded r.URL.Path once; Resolve decodes once
	// itself, so it gets the raw form to keep %-named files reachable.
	raw := r.URL.EscapedPath()
	resolved := Resolve(raw, h.root)

	fi, err := h.fs.Stat(resolved)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	if !fi.IsDir() {
		h.serveFile(w, r, resolved, fi.Size())
		return
	}

	// Browsers resolve relative listing links against the directory only
	// when the URL ends in a slash.
	if raw == "" || raw[len(raw)-1] != '/' {
		http.Redirect(w, r, raw+"/", http.StatusMovedPermanently)
		return
	}

	for _, name := range indexNames {
		index := filepath.Join(resolved, name)
		if ifi, err := h.fs.Stat(index); err == nil && !ifi.IsDir() {
			h.serveFile(w, r, index, ifi.Size())
			return
		}
	}

	entries, err := ReadListing(h.fs, resolved)
	if err != nil {
		http.Error(w, "No permission to list directory", http.StatusNotFound)
		return
	}

	page, err := RenderListing(r.URL.Path, entries)
	if err != nil {
		logging.GetLogger().Error("Failed to render directory listing", "path", resolved, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeHTML(w, r, page)
}

// serveFile streams a regular file with a byte-exact Content-Length. HEAD
// sends the same headers as GET and omits the body.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, path string, size int64) {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))

	if r.Method == http.MethodHead {
		return
	}

	f, err := h.fs.Open(path)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		logging.GetLogger().Warn("Aborted while streaming file", "path", path, "error", err)
	}
}

// serveUpload handles POST. The outcome, success or failure, is reported in
// the result page body; the response status is 200 either way, matching the
// form-driven flow the listing page expects.
func (h *Handler) serveUpload(w http.ResponseWriter, r *http.Request) {
	resolved := Resolve(r.URL.EscapedPath(), h.root)

	// Uploads land in the directory being listed. A path naming a file (or
	// nothing at all) falls back to its parent.
	dir := resolved
	if fi, err := h.fs.Stat(dir); err != nil || !fi.IsDir() {
		dir = filepath.Dir(dir)
	}

	filename, err := h.acceptUpload(r, dir)

	back := r.Header.Get("Referer")
	if back == "" {
		back = "/"
	}

	if err != nil {
		metrics.IncrCounter([]string{"share", "upload", "failed"}, 1)
		logging.GetLogger().Info("Upload failed", "path", r.URL.Path, "reason", err)
		h.writeHTML(w, r, renderResult(false, err.Error(), back))
		return
	}

	metrics.IncrCounter([]string{"share", "upload", "success"}, 1)
	logging.GetLogger().Info("Upload complete", "path", r.URL.Path, "filename", filename)
	h.writeHTML(w, r, renderResult(true, fmt.Sprintf("File '%s' uploaded successfully!", filename), back))
}

// acceptUpload validates, parses, and writes one uploaded file, returning the
// stored filename. An existing file of the same name is silently overwritten.
func (h *Handler) acceptUpload(r *http.Request, dir string) (string, error) {
	boundary, err := ExtractBoundary(r.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	if r.ContentLength <= 0 {
		return "", ErrEmptyBody
	}

	reader := r.Body
	if h.maxUpload > 0 {
		reader = http.MaxBytesReader(nil, r.Body, h.maxUpload)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}

	file, err := ParseUpload(body, boundary)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(dir, file.Filename)
	if err := afero.WriteFile(h.fs, dest, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("can't save file: %w", err)
	}
	return file.Filename, nil
}

// writeHTML sends an HTML page with an exact Content-Length, omitting the
// body for HEAD.
func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(page); err != nil {
		logging.GetLogger().Warn("Aborted while writing response", "error", err)
	}
}

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Upload Result Page</title>
    <meta charset="utf-8">
</head>
<body>
    <h2>Upload Result Page</h2>
    <hr>
    <p><strong>{{if .OK}}Success{{else}}Failed{{end}}:</strong> {{.Message}}</p>
    <p><a href="{{.Back}}">Back</a></p>
    <hr>
    <small>Powered By: Upshare</small>
</body>
</html>
`))

// renderResult renders the POST result page. The message and back link are
// escaped by the template, so raw error text cannot inject markup.
func renderResult(ok bool, message, back string) []byte {
	var buf bytes.Buffer
	data := struct {
		OK      bool
		Message string
		Back    string
	}{OK: ok, Message: message, Back: back}
	if err := resultTmpl.Execute(&buf, data); err != nil {
		// The template is static and the data is plain strings; execution
		// cannot fail at runtime.
		logging.GetLogger().Error("Failed to render result page", "error", err)
	}
	return buf.Bytes()
}
