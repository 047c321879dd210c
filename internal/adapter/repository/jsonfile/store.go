// Package jsonfile persists the banking state as four JSON files in a directory.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/repository/document"
	"github.com/iho/gobank/internal/usecase"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store implements usecase.Store on the local filesystem.
type Store struct {
	dir     string
	retrier *Retrier
	logger  zerolog.Logger
}

// NewStore creates a new Store rooted at dir.
func NewStore(dir string, retrier *Retrier, logger zerolog.Logger) *Store {
	if retrier == nil {
		retrier = NewRetrier(0, logger)
	}
	return &Store{
		dir:     dir,
		retrier: retrier,
		logger:  logger,
	}
}

// Path returns the file backing document name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads every document. Missing files are empty; unreadable or corrupt
// files are logged and replaced by empty values.
func (s *Store) Load(ctx context.Context) (*usecase.Snapshot, error) {
	docs := make(map[string][]byte, len(document.Names))
	for _, name := range document.Names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(s.Path(name))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				s.logger.Warn().Err(err).Str("document", name).Msg("cannot read document, using empty default")
			}
			continue
		}
		docs[name] = data
	}

	snapshot, err := document.Decode(docs)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("corrupt documents replaced with empty defaults")
	}
	return snapshot, nil
}

// Save overwrites all four documents. Each file is replaced atomically; the
// set of files is not.
func (s *Store) Save(ctx context.Context, snapshot *usecase.Snapshot) error {
	docs, err := document.Encode(snapshot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	for _, name := range document.Names {
		path := s.Path(name)
		data := docs[name]
		err := s.retrier.Retry(ctx, func() error {
			return writeFileAtomic(path, data)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, filePerm); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
