package storage

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const deleteBatchSize = 1000

type S3Config struct {
	Region    string
	KeyID     string
	KeySecret string
	Bucket    string
	Endpoint  string
}

type S3Backend struct {
	s3Client *s3.S3
	bucket   string
}

func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	awsConfig := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.KeyID, cfg.KeySecret, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, wrapError("init", cfg.Bucket, err)
	}
	return &S3Backend{
		s3Client: s3.New(sess),
		bucket:   cfg.Bucket,
	}, nil
}

// Exists treats a missing key as a normal answer, everything else as a fault.
// Folder keys work too since CreateFolder leaves a placeholder object behind.
func (s *S3Backend) Exists(path string) (bool, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return false, nil
		}
		return false, wrapError("exists", path, err)
	}
	resp.Body.Close()
	return true, nil
}

// CreateFolder writes a zero-byte placeholder object. S3 has no real folders,
// so the trailing-slash key is the folder marker convention.
func (s *S3Backend) CreateFolder(path string) error {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
		Body:   bytes.NewReader(nil),
	})
	return wrapError("create-folder", path, err)
}

// DeleteFolder removes every object under the prefix, placeholder included.
// A partial batch failure is an error, not a silent success.
func (s *S3Backend) DeleteFolder(path string) error {
	var keys []*s3.ObjectIdentifier
	err := s.s3Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: aws.String(path),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, &s3.ObjectIdentifier{Key: obj.Key})
		}
		return true
	})
	if err != nil {
		return wrapError("delete-folder", path, err)
	}
	for len(keys) > 0 {
		batch := keys
		if len(batch) > deleteBatchSize {
			batch = batch[:deleteBatchSize]
		}
		keys = keys[len(batch):]
		out, err := s.s3Client.DeleteObjects(&s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &s3.Delete{Objects: batch},
		})
		if err != nil {
			return wrapError("delete-folder", path, err)
		}
		if len(out.Errors) > 0 {
			return wrapError("delete-folder", path,
				awserr.New("BatchDelete", aws.StringValue(out.Errors[0].Message), nil))
		}
	}
	return nil
}

// DeleteFile removes the exact key only. Prefix deletion stays reserved for
// DeleteFolder so a file delete can never take out sibling keys that happen
// to share its prefix.
func (s *S3Backend) DeleteFile(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	return wrapError("delete-file", path, err)
}

// MoveFile copies the object to the new key. The source is kept - callers
// relocating a whole folder delete it afterwards in one sweep.
func (s *S3Backend) MoveFile(oldPath, newPath string) error {
	_, err := s.s3Client.CopyObject(&s3.CopyObjectInput{
		Bucket:     &s.bucket,
		CopySource: aws.String(s.bucket + "/" + oldPath),
		Key:        aws.String(newPath),
	})
	return wrapError("move-file", oldPath, err)
}

type countingReader struct {
	reader io.Reader
	size   int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.size += int64(n)
	return n, err
}

func (s *S3Backend) Save(path string, reader io.Reader) (int64, error) {
	counting := &countingReader{reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
		Body:   counting,
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(path)); mimeType != "" {
		input.ContentType = &mimeType
	}
	_, err := uploader.Upload(&input)
	return counting.size, wrapError("save", path, err)
}

func (s *S3Backend) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		return 0, wrapError("load", path, err)
	}
	defer resp.Body.Close()
	result, err := io.Copy(writer, resp.Body)
	return result, wrapError("load", path, err)
}

func (s *S3Backend) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    aws.String(path),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			http.NotFound(writer, request)
			return
		}
		http.Error(writer, "storage error", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()
	if resp.ContentType != nil {
		writer.Header().Set("Content-Type", *resp.ContentType)
	}
	_, _ = io.Copy(writer, resp.Body)
}
