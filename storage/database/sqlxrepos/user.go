package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/storage/database"
)

var userColumns = map[string]string{
	"id":         "id",
	"username":   "username",
	"role":       "role",
	"is_active":  "is_active",
	"created_at": "created_at",
	"last_login": "last_login",
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	CreatedAt    dbTime `db:"created_at"`
	LastLogin    dbTime `db:"last_login"`
}

func (r userRow) unboil() user.User {
	usr := user.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt.Time,
	}
	if r.LastLogin.Valid {
		usr.LastLogin = null.TimeFrom(r.LastLogin.Time)
	}
	return usr
}

type UserRepository struct {
	db core.DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db core.DB) *UserRepository {
	return &UserRepository{db: db}
}

func trapUserErr(err error) error {
	switch {
	case database.IsNoRows(err):
		return user.ErrNotFound
	case database.IsUniqueViolationOn(err, "username"):
		return user.ErrUsernameExists
	}
	return err
}

func (repo *UserRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	lastLogin := dbTime{}
	if usr.LastLogin.Valid {
		lastLogin = newDBTime(usr.LastLogin.Time)
	}
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("users").
		Columns("username", "password_hash", "role", "is_active", "created_at", "last_login").
		Values(usr.Username, usr.PasswordHash, string(usr.Role), usr.IsActive, newDBTime(usr.CreatedAt), lastLogin),
	)
	if err != nil {
		return user.User{}, trapUserErr(err)
	}
	usr.ID = id
	return usr, nil
}

func (repo *UserRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	q := builder.Select("*").From("users").Limit(1)
	switch {
	case filter.ID != 0:
		q = q.Where(sq.Eq{"id": filter.ID})
	case filter.Username != "":
		q = q.Where(sq.Eq{"username": filter.Username})
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := selectOne(ctx, getExec(repo.db, exec), &row, q); err != nil {
		return user.User{}, trapUserErr(err)
	}
	return row.unboil(), nil
}

func (repo *UserRepository) QueryUsers(
	ctx context.Context,
	filter user.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]user.User, error) {
	q := builder.Select("*").From("users")
	if filter.Search != "" {
		q = q.Where(containsCI(filter.Search, "username"))
	}
	if filter.Role != "" {
		q = q.Where(sq.Eq{"role": string(filter.Role)})
	}
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	q = orderBy(q, ordering, userColumns, "id ASC")

	var rows []userRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unboil())
	}
	return users, nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	lastLogin := dbTime{}
	if usr.LastLogin.Valid {
		lastLogin = newDBTime(usr.LastLogin.Time)
	}
	res, err := execute(ctx, getExec(repo.db, exec), builder.
		Update("users").
		SetMap(map[string]interface{}{
			"username":      usr.Username,
			"password_hash": usr.PasswordHash,
			"role":          string(usr.Role),
			"is_active":     usr.IsActive,
			"last_login":    lastLogin,
		}).
		Where(sq.Eq{"id": usr.ID}),
	)
	if err != nil {
		return user.User{}, trapUserErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
