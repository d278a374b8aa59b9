package course

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

type Course struct {
	ID          int64       `json:"id"`
	Code        string      `json:"course_code"`
	Title       string      `json:"title"`
	Description null.String `json:"description"`
	Department  string      `json:"department"`
	CreditHours int         `json:"credit_hours"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"course_code" validate:"required,max=20,alphanum_"`
	Title       string `json:"title" validate:"required,notblank,max=100"`
	Description string `json:"description"`
	Department  string `json:"department" validate:"required,notblank,max=50"`
	CreditHours int    `json:"credit_hours" validate:"required,min=1,max=6"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Code = strings.ToUpper(core.CleanString(nc.Code))
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Department = core.CleanString(nc.Department)
	return validate.Struct(nc)
}

type GetFilter struct {
	ID   int64
	Code string
}

type QueryFilter struct {
	Search     string `query:"search"` // code or title
	Department string `query:"department"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Department = core.CleanString(qf.Department)
}
