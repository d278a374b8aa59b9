package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
)

type Count struct {
	Label string `json:"label"`
	Total int    `json:"total"`
}

type Stats struct {
	Students             int     `json:"students"`
	Teachers             int     `json:"teachers"`
	Courses              int     `json:"courses"`
	Classes              int     `json:"classes"`
	Enrollments          int     `json:"enrollments"`
	StudentsByDepartment []Count `json:"students_by_department"`
	StudentsByYear       []Count `json:"students_by_year"`
	TeachersByDepartment []Count `json:"teachers_by_department"`
}

type (
	Repository interface {
		Totals(ctx context.Context, exec ...core.DBExecutor) (Stats, error)
		StudentsByDepartment(ctx context.Context, exec ...core.DBExecutor) ([]Count, error)
		StudentsByYear(ctx context.Context, exec ...core.DBExecutor) ([]Count, error)
		TeachersByDepartment(ctx context.Context, exec ...core.DBExecutor) ([]Count, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	stats, err := svc.repo.Totals(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting totals")
	}
	if stats.StudentsByDepartment, err = svc.repo.StudentsByDepartment(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting students by department")
	}
	if stats.StudentsByYear, err = svc.repo.StudentsByYear(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting students by year")
	}
	if stats.TeachersByDepartment, err = svc.repo.TeachersByDepartment(ctx); err != nil {
		return Stats{}, errors.Wrap(err, "counting teachers by department")
	}
	return stats, nil
}
