// internal/api/media.go
package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

// safeFilenamePattern defines the acceptable characters for filenames
var safeFilenamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// initMediaRoutes registers the image retrieval route
func (c *Controller) initMediaRoutes() {
	c.Echo.GET("/recordImages/:filename", c.ServeRecordImage)
}

// validateImagePath ensures a filename resolves inside the image directory.
// No directory separators survive the pattern check, and the resolved path is
// re-verified against the base directory after normalization.
func validateImagePath(imageDir, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("empty filename")
	}

	if !safeFilenamePattern.MatchString(filename) {
		return "", fmt.Errorf("invalid filename characters")
	}

	filename = filepath.Base(filename)
	fullPath := filepath.Join(imageDir, filename)

	absImageDir, err := filepath.Abs(imageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve image directory: %w", err)
	}
	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absFullPath, absImageDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	return fullPath, nil
}

// ServeRecordImage serves one specimen photograph by exact filename.
func (c *Controller) ServeRecordImage(ctx echo.Context) error {
	filename := ctx.Param("filename")

	fullPath, err := validateImagePath(c.Settings.Images.Directory, filename)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid file request", http.StatusBadRequest)
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return c.HandleError(ctx, err, "Image not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Error accessing image file", http.StatusInternalServerError)
	}

	return ctx.File(fullPath)
}
