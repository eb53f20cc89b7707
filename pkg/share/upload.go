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
	"errors"
	"mime"
	"regexp"
)

// Upload failures are recoverable: the handler reports them on the result
// page and the request still completes.
var (
	ErrMissingContentType = errors.New("Content-Type header is missing")
	ErrNotMultipart       = errors.New("Content-Type is not multipart/form-data")
	ErrNoBoundary         = errors.New("multipart boundary is missing")
	ErrEmptyBody          = errors.New("no data received")
	ErrNoFileField        = errors.New("no file found in upload data")
	ErrEmptyFilename      = errors.New("file field has an empty filename")
)

// UploadedFile is a single file extracted from a multipart/form-data body.
// The filename is taken verbatim from the client-supplied attribute.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// ExtractBoundary validates a request Content-Type and returns the multipart
// boundary token.
func ExtractBoundary(contentType string) (string, error) {
	if contentType == "" {
		return "", ErrMissingContentType
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		return "", ErrNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}

var filenameAttr = regexp.MustCompile(`filename="([^"]*)"`)

// ParseUpload extracts the first file-bearing part from a raw
// multipart/form-data body. The body is split on the "--boundary" delimiter;
// the first part whose Content-Disposition header carries a filename
// attribute wins, and any later file parts are ignored. The part's content is
// everything after the blank line that terminates its headers, with exactly
// one trailing CRLF (the one preceding the next delimiter) stripped.
func ParseUpload(body []byte, boundary string) (*UploadedFile, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	delimiter := append([]byte("--"), boundary...)
	for _, part := range bytes.Split(body, delimiter) {
		headers, content, found := bytes.Cut(part, []byte("\r\n\r\n"))
		if !found || !bytes.Contains(headers, []byte("Content-Disposition")) {
			continue
		}
		m := filenameAttr.FindSubmatch(headers)
		if m == nil {
			continue
		}
		if len(m[1]) == 0 {
			return nil, ErrEmptyFilename
		}
		content = bytes.TrimSuffix(content, []byte("\r\n"))
		return &UploadedFile{Filename: string(m[1]), Content: content}, nil
	}
	return nil, ErrNoFileField
}
