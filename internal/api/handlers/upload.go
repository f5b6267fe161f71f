package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/docportal/docportal/pkg/domain"
)

// multipartUpload adapts a multipart file header to domain.UploadedFile.
// It is the only place the handlers touch the upload transport.
type multipartUpload struct {
	header *multipart.FileHeader
}

func newUpload(header *multipart.FileHeader) domain.UploadedFile {
	return &multipartUpload{header: header}
}

func (u *multipartUpload) Name() string {
	return filepath.Base(u.header.Filename)
}

func (u *multipartUpload) Bytes() ([]byte, error) {
	f, err := u.header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %s: %w", u.Name(), err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload %s: %w", u.Name(), err)
	}
	return data, nil
}

// saveUpload writes an uploaded file into dir and returns its path.
func saveUpload(upload domain.UploadedFile, dir string) (string, error) {
	data, err := upload.Bytes()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, upload.Name())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving upload %s: %w", upload.Name(), err)
	}
	return path, nil
}
