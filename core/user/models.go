package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

type Role string

// Roles
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var (
	AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

	Roles = []RoleInfo{
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Student", Value: RoleStudent},
	}
)

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    null.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd, scheme string) error {
	hash, err := HashPassword(pwd, scheme)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u User) CheckPassword(pwd string) bool {
	return CheckPassword(u.PasswordHash, pwd)
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Actor returns the request-scoped identity of u.
func (u User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Actor is the authenticated identity a request acts on behalf of.
// It is built per request and handed to services explicitly.
type Actor struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdmin }
func (a Actor) IsTeacher() bool { return a.Role == RoleTeacher }
func (a Actor) IsStudent() bool { return a.Role == RoleStudent }

// HasAnyRole reports whether the actor holds one of roles. Admins hold every role.
func (a Actor) HasAnyRole(roles ...Role) bool {
	if a.IsAdmin() || len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username        string `json:"username" validate:"required,min=3,max=50,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"omitempty,eqfield=Password"`
	Role            Role   `json:"role" validate:"required,userrole"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	return validate.Struct(nu)
}

type ResetUserPassword struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"omitempty,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error {
	rp.Username = core.CleanString(rp.Username, true /* lower */)
	return validate.Struct(rp)
}

type GetFilter struct {
	ID       int64
	Username string
}

type QueryFilter struct {
	Search   string `query:"search"`
	Role     Role   `query:"role"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = Role(core.CleanString(string(qf.Role), true /* lower */))
}
