// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Resolve maps a request URL path to an absolute filesystem path under root.
// It strips any query string or fragment, percent-decodes the path, and walks
// the remaining segments onto root one at a time, discarding anything that
// could climb out of the sandbox: "."/".." markers, empty segments, and
// embedded drive specifiers (so "C:\x" cannot escape on filesystems that
// interpret drive syntax).
//
// Resolve never fails; a path that does not exist is detected later by the
// filesystem operations that consume it. It is idempotent: feeding an
// already-resolved path back in yields the same path.
func Resolve(urlPath, root string) string {
	if i := strings.IndexByte(urlPath, '?'); i >= 0 {
		urlPath = urlPath[:i]
	}
	if i := strings.IndexByte(urlPath, '#'); i >= 0 {
		urlPath = urlPath[:i]
	}

	decoded, err := url.PathUnescape(urlPath)
	if err != nil {
		// Malformed percent-encoding is served verbatim, like the raw path.
		decoded = urlPath
	}

	// Clean against a rooted base so leading ".." segments collapse instead
	// of climbing.
	cleaned := path.Clean("/" + filepath.ToSlash(decoded))

	// An already-resolved path starts with the root; strip it so a second
	// resolution is a no-op.
	if rest, ok := strings.CutPrefix(cleaned, filepath.ToSlash(root)); ok && (rest == "" || rest[0] == '/') {
		cleaned = rest
	}

	resolved := root
	for _, seg := range strings.Split(cleaned, "/") {
		if i := strings.LastIndexByte(seg, ':'); i >= 0 {
			seg = seg[i+1:]
		}
		if i := strings.LastIndexByte(seg, '\\'); i >= 0 {
			seg = seg[i+1:]
		}
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		resolved = filepath.Join(resolved, seg)
	}
	return resolved
}
