package store

import (
	"database/sql"
	"errors"
	"fmt"

	"lsscore/internal/types"
)

// wrapStoreErr maps a raw database/sql error to types.ErrStoreUnavailable,
// preserving sql.ErrNoRows for callers that specifically check it.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return fmt.Errorf("store: %s: %w: %v", op, types.ErrStoreUnavailable, err)
}
