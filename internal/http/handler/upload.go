package handler

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"comesapi/internal/model"
	"comesapi/internal/storage"
)

// allowedExtensions are the upload formats the extractor can handle.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// newRecordID mints an identifier for a new application or verification
// record.
func newRecordID() string {
	return uuid.NewString()
}

func allowedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

func allowedExtensionList() string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

// collectUploads reads the multipart parts named by required and stores
// each one under a fresh UUID key (original extension preserved). It
// returns the stored files, the required keys that were absent or empty,
// and the first key whose filename had a disallowed extension. A non-nil
// error means storing a file failed.
func collectUploads(c *fiber.Ctx, store storage.Storage, required []string) (map[string]model.FileInfo, []string, string, error) {
	files := make(map[string]model.FileInfo)
	var missing []string

	for _, key := range required {
		fh, err := c.FormFile(key)
		if err != nil || fh.Filename == "" {
			missing = append(missing, key)
			continue
		}

		if !allowedFile(fh.Filename) {
			return nil, nil, key, nil
		}

		f, err := fh.Open()
		if err != nil {
			return nil, nil, "", fmt.Errorf("open uploaded file %s: %w", key, err)
		}

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		storageKey := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		_, err = store.Put(c.UserContext(), storageKey, f, storage.PutObjectOptions{
			Size:        fh.Size,
			ContentType: ct,
		})
		f.Close()
		if err != nil {
			return nil, nil, "", fmt.Errorf("store uploaded file %s: %w", key, err)
		}

		files[key] = model.FileInfo{
			Filename:    filepath.Base(fh.Filename),
			StoragePath: storageKey,
			ContentType: ct,
		}
	}

	return files, missing, "", nil
}

// uploadedFilenames builds the key→original-filename echo for upload
// responses.
func uploadedFilenames(files map[string]model.FileInfo) map[string]string {
	names := make(map[string]string, len(files))
	for key, info := range files {
		names[key] = info.Filename
	}
	return names
}
