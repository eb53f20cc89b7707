// Copyright 2025 Author(s) of Upshare
// SPDX-License-Identifier: Apache-2.0

package share

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartBody assembles a raw multipart/form-data body from part fragments.
func multipartBody(boundary string, parts ...string) []byte {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString(p)
	}
	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

func filePart(name, filename, content string) string {
	return "Content-Disposition: form-data; name=\"" + name + "\"; filename=\"" + filename + "\"\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" + content + "\r\n"
}

func TestExtractBoundary(t *testing.T) {
	b, err := ExtractBoundary("multipart/form-data; boundary=XYZ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", b)

	_, err = ExtractBoundary("")
	assert.ErrorIs(t, err, ErrMissingContentType)

	_, err = ExtractBoundary("text/plain")
	assert.ErrorIs(t, err, ErrNotMultipart)

	_, err = ExtractBoundary("application/x-www-form-urlencoded; charset=utf-8")
	assert.ErrorIs(t, err, ErrNotMultipart)

	_, err = ExtractBoundary("multipart/form-data")
	assert.ErrorIs(t, err, ErrNoBoundary)
}

func TestParseUpload_RoundTrip(t *testing.T) {
	body := multipartBody("XYZ", filePart("file", "a.txt", "hello"))

	f, err := ParseUpload(body, "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", f.Filename)
	assert.Equal(t, []byte("hello"), f.Content)
}

func TestParseUpload_ContentWithInternalCRLF(t *testing.T) {
	f, err := ParseUpload(multipartBody("b1", filePart("file", "multi.txt", "line1\r\nline2\r\n")), "b1")
	require.NoError(t, err)
	// Only the CRLF preceding the closing delimiter is stripped; the
	// content's own line endings survive.
	assert.Equal(t, []byte("line1\r\nline2\r\n"), f.Content)
}

func TestParseUpload_FirstFilePartWins(t *testing.T) {
	body := multipartBody("XYZ",
		"Content-Disposition: form-data; name=\"note\"\r\n\r\nnot a file\r\n",
		filePart("file", "first.txt", "one"),
		filePart("file2", "second.txt", "two"),
	)

	f, err := ParseUpload(body, "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "first.txt", f.Filename)
	assert.Equal(t, []byte("one"), f.Content)
}

func TestParseUpload_NoFileField(t *testing.T) {
	body := multipartBody("XYZ", "Content-Disposition: form-data; name=\"note\"\r\n\r\njust text\r\n")

	_, err := ParseUpload(body, "XYZ")
	assert.ErrorIs(t, err, ErrNoFileField)
}

func TestParseUpload_EmptyFilename(t *testing.T) {
	body := multipartBody("XYZ", filePart("file", "", "content"))

	_, err := ParseUpload(body, "XYZ")
	assert.ErrorIs(t, err, ErrEmptyFilename)
}

func TestParseUpload_EmptyBody(t *testing.T) {
	_, err := ParseUpload(nil, "XYZ")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestParseUpload_EmptyFileContent(t *testing.T) {
	f, err := ParseUpload(multipartBody("XYZ", filePart("file", "empty.bin", "")), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "empty.bin", f.Filename)
	assert.Empty(t, f.Content)
}
