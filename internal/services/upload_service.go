package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/logging"
)

var (
	ErrNoFiles          = newError(ErrValidation, "No files were uploaded")
	ErrTooManyFiles     = newError(ErrValidation, fmt.Sprintf("At most %d files can be uploaded at once", constants.MaxUploadFiles))
	ErrFileTooLarge     = newError(ErrValidation, "File is too large")
	ErrNoImage          = newError(ErrValidation, "No image file provided")
	ErrImageOnly        = newError(ErrValidation, "Only image files are allowed!")
	ErrUnsupportedMedia = newError(ErrValidation, "Invalid file type. Only images and documents are allowed.")
)

var (
	documentTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	imageTypes = []string{"image/jpeg", "image/png", "image/gif"}
)

// StoredFile describes a file written to the upload directory.
type StoredFile struct {
	OriginalName string `json:"originalname"`
	FileName     string `json:"filename"`
	URL          string `json:"url"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

// UploadService stores user uploads on local disk.
type UploadService struct {
	dir    string
	create func(name string) (io.WriteCloser, error)
}

func NewUploadService(dir string) *UploadService {
	return &UploadService{
		dir:    dir,
		create: func(name string) (io.WriteCloser, error) { return os.Create(name) },
	}
}

// Dir is the root directory served under /uploads.
func (s *UploadService) Dir() string {
	return s.dir
}

// StoreFiles validates and saves task or comment attachments.
func (s *UploadService) StoreFiles(files []*multipart.FileHeader) ([]StoredFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > constants.MaxUploadFiles {
		return nil, ErrTooManyFiles
	}

	// Validate everything before writing anything.
	types := make([]*mimetype.MIME, len(files))
	for i, fh := range files {
		if fh.Size > constants.MaxUploadFileSize {
			return nil, ErrFileTooLarge
		}
		mtype, err := detect(fh)
		if err != nil {
			return nil, err
		}
		if !mimetype.EqualsAny(mtype.String(), documentTypes...) {
			return nil, ErrUnsupportedMedia
		}
		types[i] = mtype
	}

	stored := make([]StoredFile, 0, len(files))
	for i, fh := range files {
		name, err := s.save(fh, "", types[i])
		if err != nil {
			// The batch is all or nothing.
			for _, f := range stored {
				s.remove("", f.FileName)
			}
			return nil, err
		}
		stored = append(stored, StoredFile{
			OriginalName: fh.Filename,
			FileName:     name,
			URL:          path.Join(constants.UploadURLPrefix, name),
			MimeType:     types[i].String(),
			Size:         fh.Size,
		})
	}
	return stored, nil
}

// StoreProfileImage saves a profile picture and returns its public path.
func (s *UploadService) StoreProfileImage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNoImage
	}
	if fh.Size > constants.MaxProfileImageSize {
		return "", ErrFileTooLarge
	}

	mtype, err := detect(fh)
	if err != nil {
		return "", err
	}
	if !mimetype.EqualsAny(mtype.String(), imageTypes...) {
		return "", ErrImageOnly
	}

	name, err := s.save(fh, constants.ProfileImageSubdir, mtype)
	if err != nil {
		return "", err
	}
	return path.Join(constants.UploadURLPrefix, constants.ProfileImageSubdir, name), nil
}

// detect sniffs the content type from the file's leading bytes.
func detect(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	return mtype, nil
}

func (s *UploadService) save(fh *multipart.FileHeader, subdir string, mtype *mimetype.MIME) (string, error) {
	dir := filepath.Join(s.dir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + mtype.Extension()

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := s.create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.remove(subdir, name)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

func (s *UploadService) remove(subdir, name string) {
	if err := os.Remove(filepath.Join(s.dir, subdir, name)); err != nil && !os.IsNotExist(err) {
		logging.LogError("upload_cleanup", err, map[string]interface{}{"file": name})
	}
}
