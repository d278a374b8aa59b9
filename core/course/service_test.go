package course_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/tests"
)

func TestService_AddCourse(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	validate, _ := testutil.NewValidator()
	svc := course.NewService(sqlxrepos.NewCourseRepository(db), validate)

	c, err := svc.AddCourse(ctx, course.NewCourse{
		Code:        "cs101",
		Title:       "Intro to Programming",
		Description: "Basics",
		Department:  "Computer Science",
		CreditHours: 3,
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "CS101", c.Code)
	assert.Equal(t, "Basics", c.Description.String)

	// same code, everything else different
	_, err = svc.AddCourse(ctx, course.NewCourse{
		Code:        "CS101",
		Title:       "Something Else",
		Department:  "Mathematics",
		CreditHours: 4,
	})
	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Course code already exists", verr.Fields[0].Error)
	assert.ErrorIs(t, err, course.ErrCodeExists)

	courses, err := svc.Query(ctx, course.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	got, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = svc.GetByID(ctx, c.ID+1)
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	validate, _ := testutil.NewValidator()
	svc := course.NewService(sqlxrepos.NewCourseRepository(db), validate)

	ma := testutil.CreateCourse(t, db, "MA201", "Calculus", "Mathematics")
	cs := testutil.CreateCourse(t, db, "CS101", "Intro to Programming", "Computer Science")
	ph := testutil.CreateCourse(t, db, "PH110", "Physics for Programmers", "Physics")

	tests := []struct {
		name     string
		filter   course.QueryFilter
		ordering []core.DBOrdering
		want     []course.Course
	}{
		{name: "all, by code", want: []course.Course{cs, ma, ph}},
		{name: "search title", filter: course.QueryFilter{Search: "programm"}, want: []course.Course{cs, ph}},
		{name: "search code", filter: course.QueryFilter{Search: "ma2"}, want: []course.Course{ma}},
		{name: "department", filter: course.QueryFilter{Department: "Physics"}, want: []course.Course{ph}},
		{
			name:     "ordering",
			ordering: []core.DBOrdering{{Field: "title", Ascending: false}},
			want:     []course.Course{ph, cs, ma},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
