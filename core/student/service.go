package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentNoExists = errors.New("a student with this student number already exists")
	ErrUserLinked      = errors.New("this user is already linked to a student")

	studentNoExistsText = "Student ID already exists"
	userLinkedText      = "this user is already linked to a student"
)

type (
	Repository interface {
		// CreateStudent returns ErrStudentNoExists or ErrUserLinked on unique collisions.
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		GetStudent(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Student.Name or Student.StudentNo.
		QueryStudents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		Departments(ctx context.Context, exec ...core.DBExecutor) ([]string, error)
		Years(ctx context.Context, exec ...core.DBExecutor) ([]int, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func translateUniqueErr(err error) error {
	switch {
	case errors.Is(err, ErrStudentNoExists):
		return core.NewValidationError(ErrStudentNoExists, core.FieldError{Field: "student_no", Error: studentNoExistsText})
	case errors.Is(err, ErrUserLinked):
		return core.NewValidationError(ErrUserLinked, core.FieldError{Field: "user_id", Error: userLinkedText})
	}
	return err
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s, err := svc.repo.CreateStudent(ctx, Student{
		StudentNo:  ns.StudentNo,
		Name:       ns.Name,
		Department: ns.Department,
		Year:       ns.Year,
		Email:      ns.Email,
		Phone:      ns.Phone,
		UserID:     ns.UserID,
	})
	if err != nil {
		if verr := translateUniqueErr(err); verr != err {
			return Student{}, verr
		}
		return Student{}, errors.Wrap(err, "creating student")
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s, err := svc.repo.GetStudent(ctx, GetFilter{ID: id})
	if err != nil {
		return Student{}, err
	}
	s, err = svc.repo.UpdateStudent(ctx, us.apply(s))
	if err != nil {
		if verr := translateUniqueErr(err); verr != err {
			return Student{}, verr
		}
		return Student{}, errors.Wrap(err, "updating student")
	}
	return s, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{ID: id})
}

// GetByUserID returns the student record linked to a user account.
func (svc *Service) GetByUserID(ctx context.Context, userID int64) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{UserID: userID})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) Departments(ctx context.Context) ([]string, error) {
	return svc.repo.Departments(ctx)
}

func (svc *Service) Years(ctx context.Context) ([]int, error) {
	return svc.repo.Years(ctx)
}
