package teacher

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
)

var (
	// errors
	ErrNotFound      = errors.New("teacher not found")
	ErrStaffNoExists = errors.New("a teacher with this staff number already exists")
	ErrUserLinked    = errors.New("this user is already linked to a teacher")
)

type (
	Repository interface {
		// CreateTeacher returns ErrStaffNoExists or ErrUserLinked on unique collisions.
		CreateTeacher(ctx context.Context, t Teacher, exec ...core.DBExecutor) (Teacher, error)
		GetTeacher(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Teacher, error)
		// QueryTeachers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Teacher.Name or Teacher.Department.
		QueryTeachers(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher, exec ...core.DBExecutor) (Teacher, error)
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
	case errors.Is(err, ErrStaffNoExists):
		return core.NewValidationError(ErrStaffNoExists, core.FieldError{Field: "staff_no", Error: "Teacher ID already exists"})
	case errors.Is(err, ErrUserLinked):
		return core.NewValidationError(ErrUserLinked, core.FieldError{Field: "user_id", Error: ErrUserLinked.Error()})
	}
	return err
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.CreateTeacher(ctx, Teacher{
		StaffNo:    nt.StaffNo,
		Name:       nt.Name,
		Department: nt.Department,
		Subjects:   nt.Subjects,
		Email:      nt.Email,
		Phone:      nt.Phone,
		UserID:     nt.UserID,
	})
	if err != nil {
		if verr := translateUniqueErr(err); verr != err {
			return Teacher{}, verr
		}
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	return t, nil
}

func (svc *Service) Update(ctx context.Context, id int64, ut UpdateTeacher) (Teacher, error) {
	if err := ut.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.GetTeacher(ctx, GetFilter{ID: id})
	if err != nil {
		return Teacher{}, err
	}
	t, err = svc.repo.UpdateTeacher(ctx, ut.apply(t))
	if err != nil {
		if verr := translateUniqueErr(err); verr != err {
			return Teacher{}, verr
		}
		return Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return t, nil
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, GetFilter{ID: id})
}

// GetByUserID returns the teacher record linked to a user account.
func (svc *Service) GetByUserID(ctx context.Context, userID int64) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, GetFilter{UserID: userID})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Teacher, error) {
	filter.Clean()
	return svc.repo.QueryTeachers(ctx, filter, ordering)
}
