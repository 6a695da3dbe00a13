package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrMirrorMiss means the mirror holds no snapshot for the cart.
var ErrMirrorMiss = errors.New("cart mirror miss")

// Mirror is the durable copy of a cart snapshot. Load returns
// ErrMirrorMiss when nothing is stored; any other error is a real
// transport failure. The store treats malformed stored content as a miss.
type Mirror interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// FileMirror keeps the snapshot in a single JSON file under a fixed key,
// one slot per cart on the local device.
type FileMirror struct {
	path string
}

// NewFileMirror returns a mirror writing to dir/<cartID>.json.
func NewFileMirror(dir, cartID string) *FileMirror {
	return &FileMirror{path: filepath.Join(dir, cartID+".json")}
}

func (m *FileMirror) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMirrorMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		// Corrupted slot behaves like an empty one.
		return nil, ErrMirrorMiss
	}
	return s, nil
}

func (m *FileMirror) Save(ctx context.Context, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}
