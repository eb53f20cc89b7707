// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name      string
	IsDir     bool
	IsSymlink bool
}

// Display returns the entry name as shown to the user: directories are
// suffixed "/", symbolic links "@".
func (e Entry) Display() string {
	switch {
	case e.IsDir:
		return e.Name + "/"
	case e.IsSymlink:
		return e.Name + "@"
	}
	return e.Name
}

// Link returns the percent-escaped href for the entry. Directory links keep
// a trailing slash so relative navigation stays inside the listing.
func (e Entry) Link() string {
	link := url.PathEscape(e.Name)
	if e.IsDir {
		link += "/"
	}
	return link
}

// CSSClass returns the style class for the entry, or "" for plain files.
func (e Entry) CSSClass() string {
	switch {
	case e.IsDir:
		return "directory"
	case e.IsSymlink:
		return "symlink"
	}
	return ""
}

// ReadListing reads the entries of dir, sorted case-insensitively. Symlinks
// are detected through afero.Lstater when the backing filesystem supports it;
// in-memory filesystems simply report no symlinks.
func ReadListing(fs afero.Fs, dir string) ([]Entry, error) {
	f, err := fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	lstater, canLstat := fs.(afero.Lstater)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		full := dir + string(os.PathSeparator) + name
		e := Entry{Name: name}
		// Stat follows symlinks, so a link pointing at a directory lists
		// as a directory; only links to non-directories get the "@" mark.
		if fi, err := fs.Stat(full); err == nil {
			e.IsDir = fi.IsDir()
		}
		if !e.IsDir && canLstat {
			if fi, lstatted, err := lstater.LstatIfPossible(full); err == nil {
				e.IsSymlink = lstatted && fi.Mode()&os.ModeSymlink != 0
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Directory listing for {{.Path}}</title>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .upload-form { background: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0; }
        .file-list { list-style-type: none; padding: 0; }
        .file-list li { padding: 8px; border-bottom: 1px solid #eee; }
        .file-list a { text-decoration: none; color: #0066cc; }
        .file-list a:hover { text-decoration: underline; }
        .directory { font-weight: bold; }
        .symlink { font-style: italic; }
    </style>
</head>
<body>
    <h2>Directory listing for {{.Path}}</h2>

    <div class="upload-form">
        <h3>Upload File</h3>
        <form enctype="multipart/form-data" method="post">
            <input name="file" type="file" required>
            <input type="submit" value="Upload">
        </form>
    </div>

    <hr>
    <ul class="file-list">
{{- range .Entries}}
        <li{{with .CSSClass}} class="{{.}}"{{end}}><a href="{{.Link}}">{{.Display}}</a></li>
{{- end}}
    </ul>
    <hr>
</body>
</html>
`))

// RenderListing renders the directory listing page for the given (already
// percent-decoded) URL path. Entry names and the path are HTML-escaped by the
// template; link targets are percent-escaped by Entry.Link.
func RenderListing(urlPath string, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Path    string
		Entries []Entry
	}{Path: urlPath, Entries: entries}
	if err := listingTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render directory listing: %w", err)
	}
	return buf.Bytes(), nil
}
