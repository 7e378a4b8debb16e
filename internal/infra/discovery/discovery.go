package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"go.uber.org/zap"
)

// FindVideos walks root recursively and returns every video file in sorted
// path order. A missing root is ErrNotFound; a complete walk with no matches
// is ErrEmptyInput. Unreadable subtrees are logged and skipped.
func FindVideos(root string, logger *zap.Logger) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scan root %s: %w", root, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	var videos []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsVideoFile(path) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(videos)
	if len(videos) == 0 {
		return nil, fmt.Errorf("no video files under %s: %w", root, entity.ErrEmptyInput)
	}
	return videos, nil
}

// IsVideoFile reports whether path has a recognized video extension,
// matched case-insensitively.
func IsVideoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv", ".webm":
		return true
	}
	return false
}
