// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// imageFileSystem exposes only regular, non-hidden files of root. Directories
// and dot-files report fs.ErrNotExist, so http.FileServer answers 404 instead
// of listing stored images or serving in-progress uploads.
type imageFileSystem struct {
	root http.FileSystem
}

func newImageFileSystem(dir string) imageFileSystem {
	return imageFileSystem{root: http.Dir(dir)}
}

func (fsys imageFileSystem) Open(name string) (http.File, error) {
	for _, part := range strings.Split(path.Clean("/"+name), "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}

	f, err := fsys.root.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}

	return f, nil
}
