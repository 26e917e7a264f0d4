package users

import "context"

// Repository port for the access gate. FindByEmail and FindByID return
// (nil, nil) when no record matches.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id UserID) (*User, error)
}
