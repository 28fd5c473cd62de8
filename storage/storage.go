package storage

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"mediafolio/config"
)

// Logical paths are '/'-delimited keys. Folder paths carry a trailing '/',
// file paths don't. Both backends interpret the same keys, so callers never
// branch on the storage mode.
type Backend interface {
	Exists(path string) (bool, error)
	CreateFolder(path string) error
	DeleteFolder(path string) error
	DeleteFile(path string) error
	// MoveFile renames on disk but only copies on S3 - the source object is
	// left behind and has to be deleted by the caller.
	MoveFile(oldPath, newPath string) error

	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
}

var backend Backend

// Init picks the backend once at startup based on config.LOCAL_MODE.
func Init() {
	if config.LOCAL_MODE {
		disk, err := NewDiskBackend(config.MEDIA_DIR)
		if err != nil {
			panic(err)
		}
		backend = disk
		log.Printf("Storage: local disk at %s\n", config.MEDIA_DIR)
		return
	}
	s3backend, err := NewS3Backend(S3Config{
		Region:    config.AWS_REGION,
		KeyID:     config.AWS_ACCESS_KEY_ID,
		KeySecret: config.AWS_SECRET_ACCESS_KEY,
		Bucket:    config.AWS_STORAGE_BUCKET,
		Endpoint:  config.AWS_S3_ENDPOINT,
	})
	if err != nil {
		panic(err)
	}
	backend = s3backend
	log.Printf("Storage: S3 bucket %s\n", config.AWS_STORAGE_BUCKET)
}

func Get() Backend {
	if backend == nil {
		panic("storage not initialised")
	}
	return backend
}

// SaveBytes stores an in-memory blob at path.
func SaveBytes(b Backend, path string, data []byte) error {
	_, err := b.Save(path, bytes.NewReader(data))
	return err
}

// EnsureFolder creates the folder unless it already exists.
func EnsureFolder(b Backend, path string) error {
	exists, err := b.Exists(path)
	if err != nil || exists {
		return err
	}
	return b.CreateFolder(path)
}
