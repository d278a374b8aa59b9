package teacher

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

type Teacher struct {
	ID         int64      `json:"id"`
	StaffNo    string     `json:"staff_no"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Subjects   string     `json:"subjects"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	UserID     null.Int64 `json:"user_id"`
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	StaffNo    string     `json:"staff_no" validate:"required,max=20,alphanum_"`
	Name       string     `json:"name" validate:"required,notblank,max=100"`
	Department string     `json:"department" validate:"required,notblank,max=50"`
	Subjects   string     `json:"subjects" validate:"max=255"`
	Email      string     `json:"email" validate:"required,emailaddr,max=100"`
	Phone      string     `json:"phone" validate:"required,phone"`
	UserID     null.Int64 `json:"user_id"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.StaffNo = core.CleanString(nt.StaffNo)
	nt.Name = core.CleanString(nt.Name)
	nt.Department = core.CleanString(nt.Department)
	nt.Subjects = core.CleanString(nt.Subjects)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Phone = core.CleanString(nt.Phone)
	return validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name       string     `json:"name" validate:"omitempty,max=100"`
	Department string     `json:"department" validate:"omitempty,max=50"`
	Subjects   string     `json:"subjects" validate:"omitempty,max=255"`
	Email      string     `json:"email" validate:"omitempty,emailaddr,max=100"`
	Phone      string     `json:"phone" validate:"omitempty,phone"`
	UserID     null.Int64 `json:"user_id"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.Name = core.CleanString(ut.Name)
	ut.Department = core.CleanString(ut.Department)
	ut.Subjects = core.CleanString(ut.Subjects)
	ut.Email = core.CleanString(ut.Email, true /* lower */)
	ut.Phone = core.CleanString(ut.Phone)
	return validate.Struct(ut)
}

func (ut UpdateTeacher) apply(t Teacher) Teacher {
	if ut.Name != "" {
		t.Name = ut.Name
	}
	if ut.Department != "" {
		t.Department = ut.Department
	}
	if ut.Subjects != "" {
		t.Subjects = ut.Subjects
	}
	if ut.Email != "" {
		t.Email = ut.Email
	}
	if ut.Phone != "" {
		t.Phone = ut.Phone
	}
	if ut.UserID.Valid {
		t.UserID = ut.UserID
	}
	return t
}

type GetFilter struct {
	ID      int64
	StaffNo string
	UserID  int64
}

type QueryFilter struct {
	Search     string `query:"search"` // name or department
	Department string `query:"department"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Department = core.CleanString(qf.Department)
}
