package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/platform/id"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// ensurePublicID keeps a known identity and mints one for new records. The
// ON CONFLICT clauses return the stored identity when the natural key exists.
func ensurePublicID(gen id.Generator, current string) (string, error) {
	if current != "" {
		return current, nil
	}
	publicID, err := gen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	return publicID, nil
}
