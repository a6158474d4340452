package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type upload struct {
	body        io.ReadCloser
	size        int64
	contentType string
}

// readUpload opens the multipart "file" field. The caller closes body.
func readUpload(c *gin.Context) (*upload, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return nil, false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file is too large"})
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, "cannot read file")
		return nil, false
	}
	return &upload{body: f, size: fh.Size, contentType: fh.Header.Get("Content-Type")}, true
}
