package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/storage/database"
)

var (
	teacherSelect  = aliased("t", "id", "staff_no", "name", "department", "subjects", "email", "phone", "user_id")
	teacherColumns = map[string]string{
		"id":         "t.id",
		"staff_no":   "t.staff_no",
		"name":       "t.name",
		"department": "t.department",
	}
)

type teacherRow struct {
	ID         int64      `db:"id"`
	StaffNo    string     `db:"staff_no"`
	Name       string     `db:"name"`
	Department string     `db:"department"`
	Subjects   string     `db:"subjects"`
	Email      string     `db:"email"`
	Phone      string     `db:"phone"`
	UserID     null.Int64 `db:"user_id"`
}

func (r teacherRow) unboil() teacher.Teacher {
	return teacher.Teacher(r)
}

type TeacherRepository struct {
	db core.DB
}

var _ teacher.Repository = (*TeacherRepository)(nil)

func NewTeacherRepository(db core.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func trapTeacherErr(err error) error {
	switch {
	case database.IsNoRows(err):
		return teacher.ErrNotFound
	case database.IsUniqueViolationOn(err, "staff_no"):
		return teacher.ErrStaffNoExists
	case database.IsUniqueViolationOn(err, "user_id"):
		return teacher.ErrUserLinked
	}
	return err
}

func (repo *TeacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	id, err := insertReturningID(ctx, getExec(repo.db, exec), builder.
		Insert("teachers").
		Columns("staff_no", "name", "department", "subjects", "email", "phone", "user_id").
		Values(t.StaffNo, t.Name, t.Department, t.Subjects, t.Email, t.Phone, t.UserID),
	)
	if err != nil {
		return teacher.Teacher{}, trapTeacherErr(err)
	}
	t.ID = id
	return t, nil
}

func (repo *TeacherRepository) GetTeacher(ctx context.Context, filter teacher.GetFilter, exec ...core.DBExecutor) (teacher.Teacher, error) {
	q := builder.Select(teacherSelect...).From("teachers t").Limit(1)
	switch {
	case filter.ID != 0:
		q = q.Where(sq.Eq{"t.id": filter.ID})
	case filter.StaffNo != "":
		q = q.Where(sq.Eq{"t.staff_no": filter.StaffNo})
	case filter.UserID != 0:
		q = q.Where(sq.Eq{"t.user_id": filter.UserID})
	default:
		return teacher.Teacher{}, teacher.ErrNotFound
	}

	var row teacherRow
	if err := selectOne(ctx, getExec(repo.db, exec), &row, q); err != nil {
		return teacher.Teacher{}, trapTeacherErr(err)
	}
	return row.unboil(), nil
}

func (repo *TeacherRepository) QueryTeachers(
	ctx context.Context,
	filter teacher.QueryFilter,
	ordering []core.DBOrdering,
	exec ...core.DBExecutor,
) ([]teacher.Teacher, error) {
	q := builder.Select(teacherSelect...).From("teachers t")
	if filter.Search != "" {
		q = q.Where(containsCI(filter.Search, "t.name", "t.department"))
	}
	if filter.Department != "" {
		q = q.Where(sq.Eq{"t.department": filter.Department})
	}
	q = orderBy(q, ordering, teacherColumns, "t.name ASC")

	var rows []teacherRow
	if err := selectAll(ctx, getExec(repo.db, exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, r := range rows {
		teachers = append(teachers, r.unboil())
	}
	return teachers, nil
}

func (repo *TeacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	res, err := execute(ctx, getExec(repo.db, exec), builder.
		Update("teachers").
		SetMap(map[string]interface{}{
			"name":       t.Name,
			"department": t.Department,
			"subjects":   t.Subjects,
			"email":      t.Email,
			"phone":      t.Phone,
			"user_id":    t.UserID,
		}).
		Where(sq.Eq{"id": t.ID}),
	)
	if err != nil {
		return teacher.Teacher{}, trapTeacherErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, nil
}
