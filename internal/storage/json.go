package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/shopcart-backend/pkg/logger"
)

// LoadJSON decodes the blob stored under name into T. A missing blob yields fallback
// with found=false; an undecodable blob is logged and also yields fallback.
func LoadJSON[T any](ctx context.Context, store BlobStore, logg *logger.Logger, name string, fallback T) (value T, found bool, err error) {
	raw, err := store.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return fallback, false, nil
	}
	if err != nil {
		return fallback, false, err
	}

	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{"blob": name, "error": err.Error()})
			logg.Warn(logCtx, "discarding malformed stored data")
		}
		return fallback, false, nil
	}
	return decoded, true, nil
}

// Encode marshals v for storage.
func Encode(name string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", name, err)
	}
	return raw, nil
}

// SaveJSON encodes v and stores it under name.
func SaveJSON(ctx context.Context, store BlobStore, name string, v any) error {
	raw, err := Encode(name, v)
	if err != nil {
		return err
	}
	return store.Save(ctx, name, raw)
}
