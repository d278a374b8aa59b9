// Package exportsvc renders timetables as spreadsheets.
package exportsvc

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/college/core/schedule"
)

const (
	sheetName   = "Schedule"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"Day", "Start", "End", "Course", "Title", "Teacher", "Room", "Semester"}

// ScheduleXLSX writes rows, in the order given, into a single-sheet workbook.
func ScheduleXLSX(rows []schedule.Row) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}
	_ = f.SetColWidth(sheetName, "A", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "F", 28)
	_ = f.SetColWidth(sheetName, "G", "H", 12)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	if err = f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "writing header")
	}
	if err = f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return nil, errors.Wrap(err, "styling header")
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errors.Wrap(err, "computing cell name")
		}
		values := []interface{}{
			r.DayOfWeek, r.StartTime, r.EndTime, r.CourseCode, r.CourseTitle, r.TeacherName, r.RoomNumber, r.Semester,
		}
		if err = f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}
