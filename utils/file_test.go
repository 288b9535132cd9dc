package utils

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir from Go 1.24+, reimplemented for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func multipartFixture(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	require.NotEmpty(t, form.File["file"])
	return form.File["file"][0]
}

func TestStoreUploadFallsBackToLocalDisk(t *testing.T) {
	chdir(t, t.TempDir())
	require.False(t, R2Enabled())

	fh := multipartFixture(t, "report.pdf", "pdf-bytes")
	url, err := StoreUpload(fh, "resources/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/resources/report.pdf", url)

	// Content-kind subdirectory is created under uploads/.
	data, err := os.ReadFile(filepath.Join("uploads", "resources", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestRemoveStoredFileLocal(t *testing.T) {
	chdir(t, t.TempDir())

	fh := multipartFixture(t, "cover.png", "png-bytes")
	url, err := StoreUpload(fh, "blogs/cover.png")
	require.NoError(t, err)

	require.NoError(t, RemoveStoredFile(url))
	_, err = os.Stat(filepath.Join("uploads", "blogs", "cover.png"))
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error.
	assert.NoError(t, RemoveStoredFile(url))
}
