package course

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("a course with this code already exists")

	codeExistsText = "Course code already exists"
)

type (
	Repository interface {
		// CreateCourse returns ErrCodeExists when the course code is taken.
		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		GetCourse(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Course, error)
		QueryCourses(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Course, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// AddCourse inserts a course. A colliding course code fails whatever the other fields are.
func (svc *Service) AddCourse(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Course{}, err
	}

	c := Course{
		Code:        nc.Code,
		Title:       nc.Title,
		Department:  nc.Department,
		CreditHours: nc.CreditHours,
	}
	if nc.Description != "" {
		c.Description = null.StringFrom(nc.Description)
	}

	c, err := svc.repo.CreateCourse(ctx, c)
	if err != nil {
		if errors.Is(err, ErrCodeExists) {
			return Course{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "course_code", Error: codeExistsText})
		}
		return Course{}, errors.Wrap(err, "creating course")
	}
	return c, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Course, error) {
	return svc.repo.GetCourse(ctx, GetFilter{ID: id})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryCourses(ctx, filter, ordering)
}
