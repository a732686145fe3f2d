package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/user"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type userTableModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("public_id", "name", "email").From("users").
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.User{ID: row.PublicID, Name: row.Name, Email: row.Email})
	}
	return out, nil
}
