package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/platform/dsn"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const maxTracedQueryLength = 512

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	source := cfg.DBURL
	if cfg.DBBinaryParameters {
		source = dsn.WithBinaryParameters(source)
	}
	db, err := otelsqlx.Open("postgres", source,
		otelsql.WithDBName(dsn.DatabaseName(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// formatDBQueryForTrace collapses whitespace so multi-line repository
// queries show up on one line in span attributes.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
