package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"

	"go.uber.org/zap"
)

// FileStore reads the per-sport JSON files on every request so edits to the
// data directory show up without a restart. A file that cannot be read or
// parsed is logged and served as an empty list.
type FileStore struct {
	fsys fs.FS
	log  *zap.Logger
}

func NewFileStore(fsys fs.FS, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{fsys: fsys, log: log}
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := fs.Stat(s.fsys, sportFiles[0].file)
	return err
}

func (s *FileStore) List(ctx context.Context, sport Sport) ([]Product, error) {
	out := make([]Product, 0, 16)
	for _, sf := range sportFiles {
		if sport != SportAll && sf.sport != sport {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, s.readFile(sf.file)...)
	}
	return out, nil
}

func (s *FileStore) readFile(name string) []Product {
	products, err := readProducts(s.fsys, name)
	if err != nil {
		s.log.Error("read products file failed", zap.String("file", name), zap.Error(err))
		return nil
	}
	return products
}

func readProducts(fsys fs.FS, name string) ([]Product, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return products, nil
}
