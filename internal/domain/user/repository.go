package user

import "context"

type Repository interface {
	List(ctx context.Context) ([]User, error)
}
