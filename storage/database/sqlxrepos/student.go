package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/storage/database"
)

var (
	studentSelect  = aliased("s", "id", "student_no", "name", "department", "year", "email", "phone", "user_id")
	studentColumns = map[string]string{
		"id":         "s.id",
		"student_no": "s.student_no",
		"name":       "s.name",
		"department": "s.department",
		"year":       "s.year",
	}
)

type studentRow struct {
	ID         int64      `db:"id"`
	StudentNo  string     `db:"student_no"`
	Name       string     `db:"name"`
	Department string     `db:"department"`
	Year       int        `db:"year"`
	Email      string     `db:"email"`
	Phone      string     `db:"phone"`
	UserID     null.Int64 `db:"user_id"`
}

func (r studentRow) unboil() student.Student {
	return student.Student(r)
}

type StudentRepository struct {
	db core.DB
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(db core.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func trapStudentErr(err error) error {
	switch {
	case database.IsNoRows(err):
		return student.ErrNotFound
	case database.IsUniqueViolationOn(err, "student_no"):
		return student.ErrStudentNoExists
	case database.IsUniqueViolationOn(err, "user_id"):
		return student.ErrUserLinked
	}
	return err
}

func (repo *StudentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("students").
		Columns("student_no", "name", "department", "year", "email", "phone", "user_id").
		Values(s.StudentNo, s.Name, s.Department, s.Year, s.Email, s.Phone, s.UserID),
	)
	if err != nil {
		return student.Student{}, trapStudentErr(err)
	}
	s.ID = id
	return s, nil
}

func (repo *StudentRepository) GetStudent(ctx context.Context, filter student.GetFilter, exec ...core.DBExecutor) (student.Student, error) {
	q := builder.Select(studentSelect...).From("students s").Limit(1)
	switch {
	case filter.ID != 0:
		q = q.Where(sq.Eq{"s.id": filter.ID})
	case filter.StudentNo != "":
		q = q.Where(sq.Eq{"s.student_no": filter.StudentNo})
	case filter.UserID != 0:
		q = q.Where(sq.Eq{"s.user_id": filter.UserID})
	default:
		return student.Student{}, student.ErrNotFound
	}

	var row studentRow
	if err := selectOne(ctx, getExec(repo.db, exec), &row, q); err != nil {
		return student.Student{}, trapStudentErr(err)
	}
	return row.unboil(), nil
}

func (repo *StudentRepository) QueryStudents(
	ctx context.Context,
	filter student.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]student.Student, error) {
	q := builder.Select(studentSelect...).From("students s")
	if filter.Search != "" {
		q = q.Where(containsCI(filter.Search, "s.name", "s.student_no"))
	}
	if filter.Department != "" {
		q = q.Where(sq.Eq{"s.department": filter.Department})
	}
	if filter.Year != 0 {
		q = q.Where(sq.Eq{"s.year": filter.Year})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(sq.Eq{"s.id": filter.IDs})
	}
	if filter.ClassScheduleID != 0 {
		q = q.
			Join("class_enrollments ce ON ce.student_id = s.id").
			Where(sq.Eq{"ce.class_schedule_id": filter.ClassScheduleID})
	}
	q = orderBy(q, ordering, studentColumns, "s.name ASC")

	var rows []studentRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.unboil())
	}
	return students, nil
}

func (repo *StudentRepository) UpdateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	res, err := execute(ctx, getExec(repo.db, exec), builder.
		Update("students").
		SetMap(map[string]interface{}{
			"name":       s.Name,
			"department": s.Department,
			"year":       s.Year,
			"email":      s.Email,
			"phone":      s.Phone,
			"user_id":    s.UserID,
		}).
		Where(sq.Eq{"id": s.ID}),
	)
	if err != nil {
		return student.Student{}, trapStudentErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *StudentRepository) Departments(ctx context.Context, exec ...core.DBExecutor) ([]string, error) {
	var departments []string
	q := builder.Select("DISTINCT department").From("students").OrderBy("department ASC")
	if err := selectAll(ctx, getExec(repo.db, exec), &departments, q); err != nil {
		return nil, errors.Wrap(err, "selecting departments")
	}
	return departments, nil
}

func (repo *StudentRepository) Years(ctx context.Context, exec ...core.DBExecutor) ([]int, error) {
	var years []int
	q := builder.Select("DISTINCT year").From("students").OrderBy("year ASC")
	if err := selectAll(ctx, getExec(repo.db, exec), &years, q); err != nil {
		return nil, errors.Wrap(err, "selecting years")
	}
	return years, nil
}
