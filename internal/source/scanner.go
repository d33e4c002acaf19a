package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir finds history files directly inside dir. Each file's name (without
// extension) is taken as the startup id it belongs to.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		format, err := FormatOf(e.Name())
		if err != nil {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:      filepath.Join(dir, e.Name()),
			Format:    format,
			StartupID: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}
