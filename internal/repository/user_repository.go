package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/store"
)

// usersColumns is the fixed append order of the Users table. The sheet
// header must match.
var usersColumns = []string{
	"staff_id", "username", "branch", "role", "allowed_sources", "is_active", "created_at",
}

// UserRepository defines row-store access for user records.
type UserRepository interface {
	// ListAll fetches and parses every user row. Rows without a staff_id
	// are skipped.
	ListAll(ctx context.Context) ([]domain.UserRecord, error)
	// Append persists a new user row in the fixed column order.
	Append(ctx context.Context, user domain.UserRecord) error
}

type userRepository struct {
	rows  store.RowStore
	table string
}

// NewUserRepository returns a row-store-backed implementation.
func NewUserRepository(rows store.RowStore, table string) UserRepository {
	return &userRepository{rows: rows, table: table}
}

func (r *userRepository) ListAll(ctx context.Context) ([]domain.UserRecord, error) {
	rows, err := r.rows.FetchAll(ctx, r.table)
	if err != nil {
		return nil, err
	}

	users := make([]domain.UserRecord, 0, len(rows))
	for _, row := range rows {
		staffID := strings.TrimSpace(row["staff_id"])
		if staffID == "" {
			continue
		}

		role := domain.Role(strings.TrimSpace(row["role"]))
		if role == "" {
			role = domain.RoleRM
		}

		users = append(users, domain.UserRecord{
			StaffID:   staffID,
			Username:  strings.TrimSpace(row["username"]),
			Branch:    strings.TrimSpace(row["branch"]),
			Role:      role,
			Sources:   domain.ParseSourceScope(row["allowed_sources"]),
			Active:    domain.ParseActive(row["is_active"]),
			CreatedAt: strings.TrimSpace(row["created_at"]),
		})
	}
	return users, nil
}

func (r *userRepository) Append(ctx context.Context, user domain.UserRecord) error {
	active := "FALSE"
	if user.Active {
		active = "TRUE"
	}

	values := make([]string, 0, len(usersColumns))
	values = append(values,
		user.StaffID,
		user.Username,
		user.Branch,
		string(user.Role),
		user.Sources.String(),
		active,
		user.CreatedAt,
	)
	return r.rows.Append(ctx, r.table, values)
}
