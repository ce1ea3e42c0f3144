package httpx

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alaeddineatb/projet-techno-web-q2/internal/store"
	"github.com/alaeddineatb/projet-techno-web-q2/pkg/auth"
)

const maxPhotoBytes = 5 << 20 // 5MB

// ProfileAPI handles profile photo uploads.
type ProfileAPI struct {
	DB        *store.Postgres
	PhotosDir string
}

// UploadPhoto accepts a multipart image upload, stores it under the
// photos dir as {userID}.jpg and records the URL on the user row.
func (a *ProfileAPI) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.From(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo file required (max 5MB)", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		http.Error(w, "file must be an image", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(a.PhotosDir, 0o755); err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%d.jpg", uid.UserID)
	dst, err := os.Create(filepath.Join(a.PhotosDir, filename))
	if err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	url := "/static/photos/" + filename
	if err := a.DB.UpdatePhoto(r.Context(), uid.UserID, url); err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"success": true, "photoUrl": url})
}
