// handlers_upload.go - Upload batch handlers
package api

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tindapay/dashboard/internal/dashboard"
	"github.com/tindapay/dashboard/internal/models"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	processor BatchProcessor
	results   ResultStore
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(processor BatchProcessor, results ResultStore) UploadHandler {
	return &UploadHandlerImpl{
		processor: processor,
		results:   results,
	}
}

// HandleUpload accepts a multipart batch: repeated "files" parts and an
// optional "lastModified" value per file in epoch milliseconds.
func (h *UploadHandlerImpl) HandleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return NewValidationError("files")
	}
	modified := form.Value["lastModified"]

	files := make([]models.UploadedFile, 0, len(headers))
	for i, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return NewInternalError("failed to open uploaded file", err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return NewInternalError("failed to read uploaded file", err)
		}

		f := models.UploadedFile{Name: fh.Filename, Data: data}
		if i < len(modified) {
			f.LastModified = parseMillis(modified[i])
		}
		files = append(files, f)
	}

	return h.process(c, files)
}

// HandleUploadJSON accepts a batch of data URLs, the format browser upload
// widgets emit.
func (h *UploadHandlerImpl) HandleUploadJSON(c echo.Context) error {
	var req uploadBatchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	files := make([]models.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		data, err := decodeDataURL(f.Contents)
		if err != nil {
			return NewBadRequestError("invalid contents for "+f.Name, err)
		}
		uf := models.UploadedFile{Name: f.Name, Data: data}
		if f.LastModified > 0 {
			uf.LastModified = time.UnixMilli(f.LastModified)
		}
		files = append(files, uf)
	}

	return h.process(c, files)
}

func (h *UploadHandlerImpl) process(c echo.Context, files []models.UploadedFile) error {
	result, err := h.processor.Process(c.Request().Context(), files)
	if err != nil {
		var tooMany *dashboard.TooManyFilesError
		switch {
		case errors.Is(err, dashboard.ErrBatchFailed):
			return NewBatchFailedError(dashboard.GenericFileError)
		case errors.As(err, &tooMany):
			return NewBadRequestError("too many files", err)
		default:
			return NewInternalError("failed to process upload", err)
		}
	}

	h.results.Put(result)
	return c.JSON(http.StatusCreated, result)
}

type uploadBatchRequest struct {
	Files []uploadFileRequest `json:"files"`
}

type uploadFileRequest struct {
	Name         string `json:"name"`
	Contents     string `json:"contents"` // data:<mime>;base64,<payload>
	LastModified int64  `json:"lastModified"`
}

func (r *uploadBatchRequest) validate() error {
	if len(r.Files) == 0 {
		return NewValidationError("files")
	}
	for _, f := range r.Files {
		if f.Name == "" {
			return NewValidationError("name")
		}
		if f.Contents == "" {
			return NewValidationError("contents")
		}
	}
	return nil
}

var errNotDataURL = errors.New("expected a base64 data URL")

// decodeDataURL returns the payload of "data:<mime>;base64,<payload>". A bare
// base64 string is accepted too.
func decodeDataURL(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "data:") {
		return base64.StdEncoding.DecodeString(s)
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errNotDataURL
	}
	return base64.StdEncoding.DecodeString(payload)
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
