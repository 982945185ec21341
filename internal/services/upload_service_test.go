package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")
)

// fileHeaders builds multipart file headers the way a parsed request would carry them.
func fileHeaders(t *testing.T, field string, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field]
}

func TestUploadService_StoreFiles(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir)

	stored, err := svc.StoreFiles(fileHeaders(t, "files", map[string][]byte{
		"logo.png": pngBytes,
	}))
	require.NoError(t, err)
	require.Len(t, stored, 1)

	file := stored[0]
	assert.Equal(t, "logo.png", file.OriginalName)
	assert.Equal(t, "image/png", file.MimeType)
	assert.True(t, strings.HasSuffix(file.FileName, ".png"))
	assert.Equal(t, "/uploads/"+file.FileName, file.URL)
	assert.Equal(t, int64(len(pngBytes)), file.Size)

	written, err := os.ReadFile(filepath.Join(dir, file.FileName))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)
}

func TestUploadService_StoreFilesRejects(t *testing.T) {
	svc := NewUploadService(t.TempDir())

	_, err := svc.StoreFiles(nil)
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = svc.StoreFiles(fileHeaders(t, "files", map[string][]byte{
		"script.sh": []byte("#!/bin/sh\necho hi\n"),
	}))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	many := make(map[string][]byte)
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf"} {
		many[name] = pdfBytes
	}
	_, err = svc.StoreFiles(fileHeaders(t, "files", many))
	assert.ErrorIs(t, err, ErrTooManyFiles)

	big := fileHeaders(t, "files", map[string][]byte{"big.pdf": pdfBytes})
	big[0].Size = constants.MaxUploadFileSize + 1
	_, err = svc.StoreFiles(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

// flushFailure is a file whose Close reports a lost write.
type flushFailure struct {
	*os.File
}

func (f flushFailure) Close() error {
	_ = f.File.Close()
	return errors.New("no space left on device")
}

func TestUploadService_StoreFilesIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir)
	created := 0
	svc.create = func(name string) (io.WriteCloser, error) {
		f, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		created++
		if created == 2 {
			return flushFailure{f}, nil
		}
		return f, nil
	}

	_, err := svc.StoreFiles(fileHeaders(t, "files", map[string][]byte{
		"logo.png": pngBytes,
		"brief.pdf": pdfBytes,
	}))
	require.ErrorContains(t, err, "no space left on device")
	assert.Equal(t, 2, created)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestUploadService_StoreProfileImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir)

	_, err := svc.StoreProfileImage(nil)
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = svc.StoreProfileImage(fileHeaders(t, "profileImage", map[string][]byte{"cv.pdf": pdfBytes})[0])
	assert.ErrorIs(t, err, ErrImageOnly)

	url, err := svc.StoreProfileImage(fileHeaders(t, "profileImage", map[string][]byte{"me.png": pngBytes})[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/profile-images/"))

	_, err = os.Stat(filepath.Join(dir, constants.ProfileImageSubdir, filepath.Base(url)))
	assert.NoError(t, err)
}
