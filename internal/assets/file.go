package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileBackend loads image assets from a directory on disk. Each batch is
// decoded on its own goroutine; the Loader guarantees batches never overlap.
type FileBackend struct {
	root string
	log  *zap.Logger
}

func NewFileBackend(root string, log *zap.Logger) *FileBackend {
	return &FileBackend{root: root, log: log}
}

func (b *FileBackend) Load(batch []Asset, done func(Result)) {
	go func() {
		res := Result{
			Drawables: make(map[string]Drawable, len(batch)),
			Failed:    make(map[string]error),
		}
		for _, a := range batch {
			key := Key(a)
			d, err := b.decode(key)
			if err != nil {
				res.Failed[key] = err
				continue
			}
			res.Drawables[key] = d
		}
		b.log.Debug("asset batch decoded",
			zap.Int("loaded", len(res.Drawables)), zap.Int("failed", len(res.Failed)))
		done(res)
	}()
}

func (b *FileBackend) decode(key string) (Drawable, error) {
	path := filepath.Join(b.root, filepath.FromSlash(key))
	f, err := os.Open(path)
	if err != nil {
		return Drawable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Drawable{}, fmt.Errorf("decode %s: %w", path, err)
	}
	size := img.Bounds().Size()
	return Drawable{Key: key, Width: size.X, Height: size.Y, Handle: img}, nil
}
