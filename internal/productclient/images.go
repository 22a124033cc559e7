package productclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"jrmart/internal/models"
)

// UploadImage sends the image bytes to the catalog's image store and returns
// the reference the catalog saved them under.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "upload image"
	name := models.ImageName(filename)
	if name == "" || r == nil {
		return "", &ValidationError{Fields: []string{"image"}}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("%s: read image: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var out struct {
		ImageFilename string `json:"imageFilename"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/images", &buf, w.FormDataContentType(), &out); err != nil {
		return "", err
	}
	if out.ImageFilename == "" {
		return name, nil
	}
	return out.ImageFilename, nil
}
