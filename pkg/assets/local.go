package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps assets on the local filesystem under Root
type LocalStore struct {
	Root string
}

// NewLocalStore creates a LocalStore rooted at root.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// Location returns <root>/apps/a<id>.
func (s *LocalStore) Location(appID uint) string {
	return filepath.Join(s.Root, filepath.FromSlash(AppDir(appID)))
}

// RemoveApp removes the asset directory of an app if it exists.
func (s *LocalStore) RemoveApp(_ context.Context, appID uint) error {
	dir := s.Location(appID)

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}
