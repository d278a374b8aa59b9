package schedule

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
)

// scopeFunc narrows the filter an actor asked for down to the rows it may see.
type scopeFunc func(ctx context.Context, actor user.Actor, requested RowFilter) (RowFilter, error)

func (svc *Service) viewers() map[user.Role]scopeFunc {
	return map[user.Role]scopeFunc{
		user.RoleAdmin:   adminScope,
		user.RoleTeacher: svc.teacherScope,
		user.RoleStudent: svc.studentScope,
	}
}

func adminScope(_ context.Context, _ user.Actor, requested RowFilter) (RowFilter, error) {
	return requested, nil
}

func (svc *Service) teacherScope(ctx context.Context, actor user.Actor, requested RowFilter) (RowFilter, error) {
	t, err := svc.teachers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, teacher.ErrNotFound) {
			return RowFilter{}, ErrProfileNotFound
		}
		return RowFilter{}, errors.Wrap(err, "getting teacher profile")
	}
	return RowFilter{TeacherID: t.ID, Semester: requested.Semester, DayOfWeek: requested.DayOfWeek}, nil
}

func (svc *Service) studentScope(ctx context.Context, actor user.Actor, requested RowFilter) (RowFilter, error) {
	s, err := svc.students.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return RowFilter{}, ErrProfileNotFound
		}
		return RowFilter{}, errors.Wrap(err, "getting student profile")
	}
	return RowFilter{StudentID: s.ID, Semester: requested.Semester, DayOfWeek: requested.DayOfWeek}, nil
}

// SortRows orders rows Monday first, then by start time.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := core.WeekdayIndex(rows[i].DayOfWeek), core.WeekdayIndex(rows[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		if rows[i].StartTime != rows[j].StartTime {
			return rows[i].StartTime < rows[j].StartTime
		}
		return rows[i].CourseCode < rows[j].CourseCode
	})
}

// GroupByDay buckets sorted rows per weekday, skipping days without classes.
func GroupByDay(rows []Row) []DaySchedule {
	days := make([]DaySchedule, 0, len(core.Weekdays))
	for _, r := range rows {
		if n := len(days); n > 0 && days[n-1].Day == r.DayOfWeek {
			days[n-1].Rows = append(days[n-1].Rows, r)
			continue
		}
		days = append(days, DaySchedule{Day: r.DayOfWeek, Rows: []Row{r}})
	}
	return days
}
