// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-image-gen/internal/logger"
	"github.com/MKhiriev/go-image-gen/models"
)

// ImagesDir is the directory, relative to the storage root, that holds
// generated images.
const ImagesDir = "images"

// StaticURLPrefix is the URL path under which the local backend's root is
// served by the HTTP server.
const StaticURLPrefix = "/static/"

// localFileStorage is the filesystem implementation of [ImageFileStorage].
// Images are written to <root>/images/ and served under /static/.
type localFileStorage struct {
	root   string
	logger *logger.Logger
}

// NewLocalFileStorage constructs an [ImageFileStorage] rooted at root,
// creating <root>/images if needed.
func NewLocalFileStorage(root string, logger *logger.Logger) (ImageFileStorage, error) {
	logger.Debug().Str("root", root).Msg("creating local image file storage")

	if err := os.MkdirAll(filepath.Join(root, ImagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("error creating image directory: %w", err)
	}

	return &localFileStorage{root: root, logger: logger}, nil
}

// Save writes data to a temporary file next to the destination and renames
// it into place, so a concurrent reader never sees a partial image.
func (s *localFileStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	rel := path.Join(ImagesDir, name)
	abs, err := s.absPath(rel)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".upload-*")
	if err != nil {
		log.Err(err).Str("func", "*localFileStorage.Save").Msg("error creating temp file")
		return "", fmt.Errorf("error creating image file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		log.Err(err).Str("func", "*localFileStorage.Save").Msg("error writing image file")
		return "", fmt.Errorf("error writing image file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("error closing image file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("error setting image file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), abs); err != nil {
		log.Err(err).Str("func", "*localFileStorage.Save").Msg("error moving image file into place")
		return "", fmt.Errorf("error writing image file: %w", err)
	}

	return rel, nil
}

// Remove deletes the file at rel.
func (s *localFileStorage) Remove(ctx context.Context, rel string) error {
	abs, err := s.absPath(rel)
	if err != nil {
		return err
	}

	err = os.Remove(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, rel)
	}
	if err != nil {
		return fmt.Errorf("error removing image file: %w", err)
	}

	return nil
}

// List returns every regular file under <root>/images. Temporary upload
// files are skipped.
func (s *localFileStorage) List(ctx context.Context) ([]models.StoredFile, error) {
	dir := filepath.Join(s.root, ImagesDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error listing image files: %w", err)
	}

	files := make([]models.StoredFile, 0, len(entries))
	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}

		files = append(files, models.StoredFile{
			Path:       path.Join(ImagesDir, entry.Name()),
			ModifiedAt: info.ModTime(),
		})
	}

	return files, nil
}

// URL returns <baseURL>/static/<rel>.
func (s *localFileStorage) URL(baseURL, rel string) string {
	return strings.TrimRight(baseURL, "/") + StaticURLPrefix + rel
}

// absPath resolves rel inside the root, rejecting anything that escapes it.
func (s *localFileStorage) absPath(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilePath, rel)
	}

	return filepath.Join(s.root, local), nil
}
