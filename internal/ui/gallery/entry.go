package gallery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Sort modes for directory listings.
const (
	SortByName  = "name"
	SortByMtime = "mtime"
)

type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// IsImageFile reports whether the path has a decodable image extension.
func IsImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ListDir returns the directories and image files under path.
// Directories sort first; files follow in the requested order.
func ListDir(path, sortMode string, showHidden bool) ([]Entry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() && !IsImageFile(name) {
			continue
		}

		entry := Entry{
			Name:  name,
			Path:  filepath.Join(path, name),
			IsDir: e.IsDir(),
		}
		if info, err := e.Info(); err == nil {
			entry.Size = info.Size()
			entry.ModTime = info.ModTime()
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDir != result[j].IsDir {
			return result[i].IsDir
		}
		if sortMode == SortByMtime && !result[i].IsDir {
			return result[i].ModTime.After(result[j].ModTime)
		}
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})

	return result, nil
}
