// Package assets embeds the default shaders, models and textures so the
// demo starts even when it is run away from the repository checkout.
package assets

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed shaders models textures
var FS embed.FS

// ReadFile reads p from disk and falls back to the embedded copy that has
// the same parent directory name and file name (e.g. "shaders/player.vert").
func ReadFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	name := path.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p))
	if embedded, embErr := fs.ReadFile(FS, name); embErr == nil {
		return embedded, nil
	}
	return nil, err
}
