package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/dashboard"
)

type DashboardRepository struct {
	db core.DB
}

var _ dashboard.Repository = (*DashboardRepository)(nil)

func NewDashboardRepository(db core.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (repo *DashboardRepository) Totals(ctx context.Context, exec ...core.DBExecutor) (dashboard.Stats, error) {
	var totals struct {
		Students    int `db:"students"`
		Teachers    int `db:"teachers"`
		Courses     int `db:"courses"`
		Classes     int `db:"classes"`
		Enrollments int `db:"enrollments"`
	}
	q := builder.Select(
		"(SELECT COUNT(*) FROM students) AS students",
		"(SELECT COUNT(*) FROM teachers) AS teachers",
		"(SELECT COUNT(*) FROM courses) AS courses",
		"(SELECT COUNT(*) FROM class_schedules) AS classes",
		"(SELECT COUNT(*) FROM class_enrollments) AS enrollments",
	)
	if err := selectOne(ctx, getExec(repo.db, exec), &totals, q); err != nil {
		return dashboard.Stats{}, errors.Wrap(err, "selecting totals")
	}
	return dashboard.Stats{
		Students:    totals.Students,
		Teachers:    totals.Teachers,
		Courses:     totals.Courses,
		Classes:     totals.Classes,
		Enrollments: totals.Enrollments,
	}, nil
}

func (repo *DashboardRepository) StudentsByDepartment(ctx context.Context, exec ...core.DBExecutor) ([]dashboard.Count, error) {
	return repo.countBy(ctx, "students", "department", exec)
}

func (repo *DashboardRepository) StudentsByYear(ctx context.Context, exec ...core.DBExecutor) ([]dashboard.Count, error) {
	return repo.countBy(ctx, "students", "year", exec)
}

func (repo *DashboardRepository) TeachersByDepartment(ctx context.Context, exec ...core.DBExecutor) ([]dashboard.Count, error) {
	return repo.countBy(ctx, "teachers", "department", exec)
}

func (repo *DashboardRepository) countBy(ctx context.Context, table, column string, exec []core.DBExecutor) ([]dashboard.Count, error) {
	var rows []struct {
		Label string `db:"label"`
		Total int    `db:"total"`
	}
	q := builder.
		Select("CAST("+column+" AS TEXT) AS label", "COUNT(*) AS total").
		From(table).
		GroupBy(column).
		OrderBy(column + " ASC")
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrapf(err, "counting %s by %s", table, column)
	}
	counts := make([]dashboard.Count, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, dashboard.Count{Label: r.Label, Total: r.Total})
	}
	return counts, nil
}
