package echoapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/user"
)

const (
	contextClaimsKey = "claims"
	bearerPrefix     = "Bearer "
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Username  string    `json:"username"`
	Role      user.Role `json:"role"`
	IsStudent bool      `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsTeacher bool      `json:"is_teacher,omitempty"` // -> TEACHER PORTAL
	IsAdmin   bool      `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
}

// Actor is the identity the request acts on behalf of.
func (c Claims) Actor() user.Actor {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return user.Actor{UserID: id, Username: c.Username, Role: c.Role}
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// Authenticator issues and verifies actor tokens.
type Authenticator struct {
	key       []byte
	issuer    string
	ttl       time.Duration
	blacklist user.TokenBlacklist
	users     userGetter
	nowFunc   func() time.Time
}

func NewAuthenticator(conf *core.Config, blacklist user.TokenBlacklist, users userGetter) *Authenticator {
	return &Authenticator{
		key:       []byte(conf.SecretKey),
		issuer:    conf.AppName,
		ttl:       conf.Server.JWTExpirationDelta,
		blacklist: blacklist,
		users:     users,
		nowFunc:   time.Now,
	}
}

func (a *Authenticator) UserClaims(usr user.User) *Claims {
	now := a.nowFunc()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   strconv.FormatInt(usr.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Username:  usr.Username,
		Role:      usr.Role,
		IsStudent: usr.IsStudent(),
		IsTeacher: usr.IsTeacher(),
		IsAdmin:   usr.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func (a *Authenticator) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *Authenticator) parse(raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.nowFunc))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// Middleware rejects requests without a valid, unrevoked bearer token
// and stores the token claims on the context. The account is re-read on every
// request: a deactivated user is refused and a role change applies at once.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) || len(header) == len(bearerPrefix) {
				return errMissingToken
			}
			claims, err := a.parse(header[len(bearerPrefix):])
			if err != nil {
				return err
			}
			if a.blacklist != nil {
				revoked, err := a.blacklist.IsRevoked(ctx.Request().Context(), claims.ID)
				if err != nil {
					return errors.Wrap(err, "checking token revocation")
				}
				if revoked {
					return errInvalidToken
				}
			}
			if a.users != nil {
				if err = a.refresh(ctx.Request().Context(), claims); err != nil {
					return err
				}
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

// refresh overwrites the identity claims with the stored account.
func (a *Authenticator) refresh(ctx context.Context, claims *Claims) error {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return errInvalidToken
	}
	usr, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return errInvalidToken
		}
		return errors.Wrap(err, "getting token user")
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}
	claims.Username = usr.Username
	claims.Role = usr.Role
	claims.IsStudent = usr.IsStudent()
	claims.IsTeacher = usr.IsTeacher()
	claims.IsAdmin = usr.IsAdmin()
	return nil
}

// Revoke blacklists the token behind claims for the rest of its lifetime.
func (a *Authenticator) Revoke(ctx echo.Context, claims Claims) error {
	if a.blacklist == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(a.nowFunc())
	return a.blacklist.Revoke(ctx.Request().Context(), claims.ID, ttl)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return *claims, nil
	}
	return Claims{}, errUnauthorized
}

// getActor returns the request-scoped actor.
func getActor(ctx echo.Context) (user.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.Actor{}, err
	}
	return claims.Actor(), nil
}
