package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/services/email"
	"github.com/trezcool/college/services/sms"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/tests"
)

type countingRecorder struct {
	sent, failed int
}

func (r *countingRecorder) Record(_ string, success bool) {
	if success {
		r.sent++
	} else {
		r.failed++
	}
}

func ids(students []student.Student) []int64 {
	out := make([]int64, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID)
	}
	return out
}

func TestService_ResolveRecipients(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	validate, _ := testutil.NewValidator()
	students := student.NewService(sqlxrepos.NewStudentRepository(db), validate)
	svc := notification.NewService(students, nil, nil, validate, nil, nil)

	jane := testutil.CreateStudent(t, db, "S001", "Jane", "CS", 1, "5550000001")
	john := testutil.CreateStudent(t, db, "S002", "John", "Math", 2, "5550000002")
	amy := testutil.CreateStudent(t, db, "S003", "Amy", "CS", 2, "5550000003")

	ada := testutil.CreateTeacher(t, db, "T001", "Ada", "CS")
	cs := testutil.CreateCourse(t, db, "CS101", "Intro", "CS")
	class := testutil.CreateClass(t, db, cs.ID, ada.ID, "Monday", "09:00", "10:00", "R1")
	testutil.Enroll(t, db, amy.ID, class.ID)
	testutil.Enroll(t, db, jane.ID, class.ID)

	tests := []struct {
		name      string
		criterion notification.Criterion
		want      []int64
		wantErr   bool
	}{
		{name: "all", criterion: notification.Criterion{Kind: notification.KindAll}, want: []int64{jane.ID, john.ID, amy.ID}},
		{name: "department", criterion: notification.Criterion{Kind: "Department", Department: " CS "}, want: []int64{jane.ID, amy.ID}},
		{name: "year", criterion: notification.Criterion{Kind: notification.KindYear, Year: 2}, want: []int64{john.ID, amy.ID}},
		{
			name:      "ids",
			criterion: notification.Criterion{Kind: notification.KindStudents, StudentIDs: []int64{amy.ID, jane.ID, 999}},
			want:      []int64{jane.ID, amy.ID},
		},
		{name: "single", criterion: notification.Criterion{Kind: notification.KindStudent, StudentID: john.ID}, want: []int64{john.ID}},
		{name: "single unknown", criterion: notification.Criterion{Kind: notification.KindStudent, StudentID: 999}, want: []int64{}},
		{name: "class", criterion: notification.Criterion{Kind: notification.KindClass, ClassScheduleID: class.ID}, want: []int64{jane.ID, amy.ID}},
		{name: "department missing", criterion: notification.Criterion{Kind: notification.KindDepartment}, wantErr: true},
		{name: "unknown kind", criterion: notification.Criterion{Kind: "everyone"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveRecipients(ctx, tt.criterion)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestService_SendBulk(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	validate, _ := testutil.NewValidator()
	students := student.NewService(sqlxrepos.NewStudentRepository(db), validate)

	jane := testutil.CreateStudent(t, db, "S001", "Jane", "CS", 1, "5550000001")
	john := testutil.CreateStudent(t, db, "S002", "John", "CS", 1, "5550000002")
	amy := testutil.CreateStudent(t, db, "S003", "Amy", "CS", 1, "+5550000003")

	t.Run("sms keeps going after a failure", func(t *testing.T) {
		smsSvc := smssvc.NewConsoleServiceMock("+5550000002")
		rec := &countingRecorder{}
		svc := notification.NewService(students, smsSvc, nil, validate, rec, nil)

		report, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindDepartment, Department: "CS"},
			Message:   "Exams start Monday",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, notification.StatusPartial, report.Status)
		assert.Equal(t, "Sent 2 notifications, 1 failed", report.Message)

		require.Len(t, report.Details, 3)
		assert.Equal(t, jane.ID, report.Details[0].StudentID)
		assert.Equal(t, "+5550000001", report.Details[0].Recipient)
		assert.True(t, report.Details[0].Success)
		assert.Equal(t, john.ID, report.Details[1].StudentID)
		assert.False(t, report.Details[1].Success)
		assert.Equal(t, amy.ID, report.Details[2].StudentID)
		assert.Equal(t, "+5550000003", report.Details[2].Recipient)

		sent := smsSvc.SentMessages()
		require.Len(t, sent, 2)
		assert.Equal(t, "Exams start Monday", sent[0].Body)
		assert.Equal(t, 2, rec.sent)
		assert.Equal(t, 1, rec.failed)
	})

	t.Run("all sent", func(t *testing.T) {
		svc := notification.NewService(students, smssvc.NewConsoleServiceMock(), nil, validate, nil, nil)
		report, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindAll},
			Message:   "Hello",
		})
		require.NoError(t, err)
		assert.Equal(t, notification.StatusSent, report.Status)
		assert.Equal(t, "Successfully sent notifications to all 3 students", report.Message)
	})

	t.Run("channel unavailable", func(t *testing.T) {
		svc := notification.NewService(students, nil, nil, validate, nil, nil)
		report, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindStudent, StudentID: jane.ID},
			Message:   "Hello",
		})
		require.NoError(t, err)
		assert.Equal(t, notification.StatusFailed, report.Status)
		assert.Equal(t, "Failed to send all notifications", report.Message)
		assert.Equal(t, notification.ErrChannelUnavailable.Error(), report.Details[0].Message)
	})

	t.Run("email", func(t *testing.T) {
		mailSvc := emailsvc.NewConsoleServiceMock(core.NewTestConfig())
		svc := notification.NewService(students, nil, mailSvc, validate, nil, nil)
		report, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindStudents, StudentIDs: []int64{amy.ID}},
			Message:   "Your grades are out",
			Channel:   notification.ChannelEmail,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Sent)

		sent := mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "s003@college.test", sent[0].To[0].Address)
		assert.Equal(t, "College notification", sent[0].Subject)
	})

	t.Run("no recipients", func(t *testing.T) {
		svc := notification.NewService(students, smssvc.NewConsoleServiceMock(), nil, validate, nil, nil)
		_, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindDepartment, Department: "History"},
			Message:   "Hello",
		})
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.ErrorIs(t, err, notification.ErrNoRecipients)
	})

	t.Run("blank message", func(t *testing.T) {
		svc := notification.NewService(students, smssvc.NewConsoleServiceMock(), nil, validate, nil, nil)
		_, err := svc.SendBulk(ctx, notification.Request{
			Criterion: notification.Criterion{Kind: notification.KindAll},
			Message:   "   ",
		})
		assert.Error(t, err)
	})
}
