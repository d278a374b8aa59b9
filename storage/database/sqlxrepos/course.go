package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/storage/database"
)

var (
	courseSelect  = aliased("c", "id", "course_code", "title", "description", "department", "credit_hours")
	courseColumns = map[string]string{
		"id":           "c.id",
		"course_code":  "c.course_code",
		"title":        "c.title",
		"department":   "c.department",
		"credit_hours": "c.credit_hours",
	}
)

type courseRow struct {
	ID          int64       `db:"id"`
	Code        string      `db:"course_code"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	Department  string      `db:"department"`
	CreditHours int         `db:"credit_hours"`
}

func (r courseRow) unboil() course.Course {
	return course.Course(r)
}

type CourseRepository struct {
	db core.DB
}

var _ course.Repository = (*CourseRepository)(nil)

func NewCourseRepository(db core.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func trapCourseErr(err error) error {
	switch {
	case database.IsNoRows(err):
		return course.ErrNotFound
	case database.IsUniqueViolationOn(err, "course_code"):
		return course.ErrCodeExists
	}
	return err
}

func (repo *CourseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("courses").
		Columns("course_code", "title", "description", "department", "credit_hours").
		Values(c.Code, c.Title, c.Description, c.Department, c.CreditHours),
	)
	if err != nil {
		return course.Course{}, trapCourseErr(err)
	}
	c.ID = id
	return c, nil
}

func (repo *CourseRepository) GetCourse(ctx context.Context, filter course.GetFilter, exec ...core.DBExecutor) (course.Course, error) {
	q := builder.Select(courseSelect...).From("courses c").Limit(1)
	switch {
	case filter.ID != 0:
		q = q.Where(sq.Eq{"c.id": filter.ID})
	case filter.Code != "":
		q = q.Where(sq.Eq{"c.course_code": filter.Code})
	default:
		return course.Course{}, course.ErrNotFound
	}

	var row courseRow
	if err := selectOne(ctx, getExec(repo.db, exec), &row, q); err != nil {
		return course.Course{}, trapCourseErr(err)
	}
	return row.unboil(), nil
}

func (repo *CourseRepository) QueryCourses(
	ctx context.Context,
	filter course.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]course.Course, error) {
	q := builder.Select(courseSelect...).From("courses c")
	if filter.Search != "" {
		q = q.Where(containsCI(filter.Search, "c.course_code", "c.title"))
	}
	if filter.Department != "" {
		q = q.Where(sq.Eq{"c.department": filter.Department})
	}
	q = orderBy(q, ordering, courseColumns, "c.course_code ASC")

	var rows []courseRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.unboil())
	}
	return courses, nil
}
