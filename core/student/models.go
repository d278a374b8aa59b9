package student

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

type Student struct {
	ID         int64      `json:"id"`
	StudentNo  string     `json:"student_no"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Year       int        `json:"year"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	UserID     null.Int64 `json:"user_id"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	StudentNo  string     `json:"student_no" validate:"required,max=20,alphanum_"`
	Name       string     `json:"name" validate:"required,notblank,max=100"`
	Department string     `json:"department" validate:"required,notblank,max=50"`
	Year       int        `json:"year" validate:"required,min=1,max=8"`
	Email      string     `json:"email" validate:"required,emailaddr,max=100"`
	Phone      string     `json:"phone" validate:"required,phone"`
	UserID     null.Int64 `json:"user_id"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.StudentNo = core.CleanString(ns.StudentNo)
	ns.Name = core.CleanString(ns.Name)
	ns.Department = core.CleanString(ns.Department)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name       string     `json:"name" validate:"omitempty,max=100"`
	Department string     `json:"department" validate:"omitempty,max=50"`
	Year       int        `json:"year" validate:"omitempty,min=1,max=8"`
	Email      string     `json:"email" validate:"omitempty,emailaddr,max=100"`
	Phone      string     `json:"phone" validate:"omitempty,phone"`
	UserID     null.Int64 `json:"user_id"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Department = core.CleanString(us.Department)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Phone = core.CleanString(us.Phone)
	return validate.Struct(us)
}

func (us UpdateStudent) apply(s Student) Student {
	if us.Name != "" {
		s.Name = us.Name
	}
	if us.Department != "" {
		s.Department = us.Department
	}
	if us.Year != 0 {
		s.Year = us.Year
	}
	if us.Email != "" {
		s.Email = us.Email
	}
	if us.Phone != "" {
		s.Phone = us.Phone
	}
	if us.UserID.Valid {
		s.UserID = us.UserID
	}
	return s
}

type GetFilter struct {
	ID        int64
	StudentNo string
	UserID    int64
}

type QueryFilter struct {
	Search     string  `query:"search"` // name or student number
	Department string  `query:"department"`
	Year       int     `query:"year"`
	IDs        []int64 `query:"id"`
	// ClassScheduleID keeps students enrolled in that class.
	ClassScheduleID int64 `query:"class_schedule_id"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Department = core.CleanString(qf.Department)
}
