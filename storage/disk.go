package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type DiskBackend struct {
	// BasePath is a directory (usually a mount point) writable by the current process
	BasePath string
}

func NewDiskBackend(basePath string) (*DiskBackend, error) {
	if err := os.MkdirAll(basePath, 0777); err != nil {
		return nil, wrapError("init", basePath, err)
	}
	return &DiskBackend{BasePath: basePath}, nil
}

func (d *DiskBackend) fullPath(path string) string {
	return d.BasePath + "/" + strings.TrimSuffix(path, "/")
}

func (d *DiskBackend) Exists(path string) (bool, error) {
	_, err := os.Stat(d.fullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, wrapError("exists", path, err)
}

// CreateFolder is deliberately non-recursive: the parent is expected to exist
// already, either as the media root or as a previously created folder.
func (d *DiskBackend) CreateFolder(path string) error {
	return wrapError("create-folder", path, os.Mkdir(d.fullPath(path), 0777))
}

func (d *DiskBackend) DeleteFolder(path string) error {
	return wrapError("delete-folder", path, os.RemoveAll(d.fullPath(path)))
}

func (d *DiskBackend) DeleteFile(path string) error {
	return wrapError("delete-file", path, os.Remove(d.fullPath(path)))
}

func (d *DiskBackend) MoveFile(oldPath, newPath string) error {
	return wrapError("move-file", oldPath, os.Rename(d.fullPath(oldPath), d.fullPath(newPath)))
}

func (d *DiskBackend) Save(path string, reader io.Reader) (int64, error) {
	fileName := d.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(fileName), 0777); err != nil {
		return 0, wrapError("save", path, err)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, wrapError("save", path, err)
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, wrapError("save", path, err)
}

func (d *DiskBackend) Load(path string, writer io.Writer) (int64, error) {
	file, err := os.Open(d.fullPath(path))
	if err != nil {
		return 0, wrapError("load", path, err)
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, wrapError("load", path, err)
}

func (d *DiskBackend) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	http.ServeFile(writer, request, d.fullPath(path))
}
