package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImagePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"plain filename", "img_VM100_a.jpg", false},
		{"dots and dashes", "img-VM100.final.jpg", false},
		{"empty", "", true},
		{"parent traversal", "../secrets.txt", true},
		{"embedded slash", "sub/img.jpg", true},
		{"backslash", `..\img.jpg`, true},
		{"null-ish characters", "img%00.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, err := validateImagePath(dir, tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.filename), path)
		})
	}
}

func TestServeRecordImage(t *testing.T) {
	t.Parallel()

	c := newTestController(t, seededStore(), nil)
	imagePath := filepath.Join(c.Settings.Images.Directory, "img_VM100_a.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg bytes"), 0o644))

	rec := doRequest(c, http.MethodGet, "/recordImages/img_VM100_a.jpg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg bytes", rec.Body.String())

	rec = doRequest(c, http.MethodGet, "/recordImages/missing.jpg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(c, http.MethodGet, "/recordImages/..%2Fconfig.yaml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
