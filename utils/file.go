package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

const uploadRoot = "uploads"

// EnsureUploadDir creates the local uploads directory if it doesn't exist
func EnsureUploadDir() error {
	return os.MkdirAll(uploadRoot, os.ModePerm)
}

// StoreUpload persists a multipart file under the given object key
// ("blogs/abc123.png", "resources/report.pdf") and returns its public URL.
// Files go to R2 when it is configured; otherwise they land on local disk
// under uploads/<key>, served by the /uploads static route.
func StoreUpload(fileHeader *multipart.FileHeader, key string) (string, error) {
	if R2Enabled() {
		return UploadFileToR2(fileHeader, key)
	}
	destPath := filepath.Join(uploadRoot, filepath.FromSlash(key))
	if err := saveLocal(fileHeader, destPath); err != nil {
		return "", fmt.Errorf("failed to store upload locally: %w", err)
	}
	return "/" + uploadRoot + "/" + key, nil
}

// RemoveStoredFile deletes a stored upload by its public URL, whichever
// backend holds it. Missing files are not an error.
func RemoveStoredFile(url string) error {
	if strings.HasPrefix(url, "/"+uploadRoot+"/") {
		err := os.Remove(filepath.FromSlash(strings.TrimPrefix(url, "/")))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return DeleteFileFromR2(ObjectKeyFromURL(url))
}

func saveLocal(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}
