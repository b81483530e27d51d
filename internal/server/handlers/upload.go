package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 << 20 // 5MB, same cap the admin UI advertises

var (
	errNotAnImage   = errors.New("only image files are allowed")
	errUploadTooBig = errors.New("image exceeds the 5MB limit")
)

// saveUploadedImage stores the optional image attached under field into dir
// and returns the public path clients use to fetch it. No file attached is
// not an error; the caller applies its default.
func saveUploadedImage(c *gin.Context, field, dir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		// Non-multipart bodies land here too; treat them as "no file".
		return "", nil
	}

	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", errNotAnImage
	}
	if file.Size > maxUploadSize {
		return "", errUploadTooBig
	}

	name := fmt.Sprintf("product-%d-%d%s",
		time.Now().UnixMilli(), rand.Int63n(1_000_000_000), filepath.Ext(file.Filename))

	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return "images/" + name, nil
}
