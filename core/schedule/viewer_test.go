package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortRows(t *testing.T) {
	rows := []Row{
		{CourseCode: "C", DayOfWeek: "Wednesday", StartTime: "09:00"},
		{CourseCode: "B", DayOfWeek: "Monday", StartTime: "13:00"},
		{CourseCode: "E", DayOfWeek: "Sunday", StartTime: "08:00"},
		{CourseCode: "A", DayOfWeek: "Monday", StartTime: "08:30"},
		{CourseCode: "D", DayOfWeek: "Wednesday", StartTime: "09:00"},
	}
	SortRows(rows)

	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.CourseCode)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got)
}

func TestGroupByDay(t *testing.T) {
	rows := []Row{
		{CourseCode: "A", DayOfWeek: "Monday", StartTime: "08:30"},
		{CourseCode: "B", DayOfWeek: "Monday", StartTime: "13:00"},
		{CourseCode: "C", DayOfWeek: "Friday", StartTime: "09:00"},
	}
	days := GroupByDay(rows)

	assert.Len(t, days, 2)
	assert.Equal(t, "Monday", days[0].Day)
	assert.Len(t, days[0].Rows, 2)
	assert.Equal(t, "Friday", days[1].Day)
	assert.Equal(t, "C", days[1].Rows[0].CourseCode)

	assert.Empty(t, GroupByDay(nil))
}
