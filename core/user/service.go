package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("account deactivated")

	usernameExistsText = "Username already exists"

	// AdminUsername is the account created by SeedAdmin.
	AdminUsername = "admin"
)

type (
	Repository interface {
		// CreateUser returns ErrUsernameExists when the username is taken.
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.Username.
		QueryUsers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
	}

	// TokenBlacklist stores revoked token ids until they expire.
	TokenBlacklist interface {
		Revoke(ctx context.Context, jti string, ttl time.Duration) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		hasher   string
		nowFunc  func() time.Time
	}
)

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		hasher:   conf.Auth.PasswordHasher,
		nowFunc:  core.NowUTC,
	}
}

// Register creates a new account. The username must be unused whatever the role.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr := User{
		Username:  nu.Username,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: svc.nowFunc(),
	}
	if err := usr.SetPassword(nu.Password, svc.hasher); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return User{}, core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: usernameExistsText})
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Login returns the user whose password matches pwd and records the login time.
func (svc *Service) Login(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: core.CleanString(uname, true /* lower */)})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if !usr.CheckPassword(pwd) {
		return User{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	usr.LastLogin = null.TimeFrom(svc.nowFunc())
	if usr, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// SeedAdmin creates the admin account if it does not exist yet.
// It reports whether the account was created.
func (svc *Service) SeedAdmin(ctx context.Context, pwd string) (User, bool, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: AdminUsername})
	if err == nil {
		return usr, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, errors.Wrap(err, "getting admin")
	}

	usr = User{
		Username:  AdminUsername,
		Role:      RoleAdmin,
		IsActive:  true,
		CreatedAt: svc.nowFunc(),
	}
	if err = usr.SetPassword(pwd, svc.hasher); err != nil {
		return User{}, false, err
	}
	if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
		if errors.Is(err, ErrUsernameExists) { // seeded concurrently
			usr, err = svc.repo.GetUser(ctx, GetFilter{Username: AdminUsername})
			return usr, false, errors.Wrap(err, "getting admin")
		}
		return User{}, false, errors.Wrap(err, "creating admin")
	}
	return usr, true, nil
}

func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	if err := rp.Validate(svc.validate); err != nil {
		return err
	}
	usr, err := svc.repo.GetUser(ctx, GetFilter{Username: rp.Username})
	if err != nil {
		return err
	}
	if err = usr.SetPassword(rp.Password, svc.hasher); err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}

func (svc *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter, ordering)
}
