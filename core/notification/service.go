package notification

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/student"
)

var (
	// errors
	ErrNoRecipients       = errors.New("no recipients match the selection")
	ErrChannelUnavailable = errors.New("notification channel is not available")
	ErrNoPhone            = errors.New("no phone number on record")
	ErrNoEmail            = errors.New("no email address on record")

	defaultSubject = "College notification"
)

type (
	StudentQuerier interface {
		GetByID(ctx context.Context, id int64) (student.Student, error)
		Query(ctx context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error)
	}

	// Recorder observes each send outcome.
	Recorder interface {
		Record(channel string, success bool)
	}

	Service struct {
		students StudentQuerier
		sms      core.SMSService
		email    core.EmailService
		validate *validator.Validate
		recorder Recorder
		logger   core.Logger
	}
)

// NewService builds a dispatcher. A nil channel service makes every send on that channel fail.
func NewService(
	students StudentQuerier,
	sms core.SMSService,
	email core.EmailService,
	validate *validator.Validate,
	recorder Recorder,
	logger core.Logger,
) *Service {
	return &Service{
		students: students,
		sms:      sms,
		email:    email,
		validate: validate,
		recorder: recorder,
		logger:   logger,
	}
}

// ResolveRecipients returns the students selected by c, ordered by id.
func (svc *Service) ResolveRecipients(ctx context.Context, c Criterion) ([]student.Student, error) {
	c.Clean()
	if err := svc.validate.Struct(c); err != nil {
		return nil, err
	}

	var filter student.QueryFilter
	switch c.Kind {
	case KindAll:
	case KindDepartment:
		filter.Department = c.Department
	case KindYear:
		filter.Year = c.Year
	case KindStudents:
		if len(c.StudentIDs) == 0 {
			return []student.Student{}, nil
		}
		filter.IDs = c.StudentIDs
	case KindStudent:
		s, err := svc.students.GetByID(ctx, c.StudentID)
		if err != nil {
			if errors.Is(err, student.ErrNotFound) {
				return []student.Student{}, nil
			}
			return nil, errors.Wrap(err, "getting student")
		}
		return []student.Student{s}, nil
	case KindClass:
		filter.ClassScheduleID = c.ClassScheduleID
	}

	recipients, err := svc.students.Query(ctx, filter, []core.DBOrdering{{Field: "id", Ascending: true}})
	return recipients, errors.Wrap(err, "querying recipients")
}

// SendTo delivers message to one student over channel. It never returns an error:
// failures are reported in the Detail.
func (svc *Service) SendTo(ctx context.Context, channel Channel, s student.Student, subject, message string) Detail {
	d := Detail{StudentID: s.ID, StudentName: s.Name}

	var err error
	switch channel {
	case ChannelEmail:
		d.Recipient = s.Email
		err = svc.sendEmail(ctx, s, subject, message)
	default:
		d.Recipient = core.NormalizePhone(s.Phone)
		d.SID, err = svc.sendSMS(ctx, d.Recipient, message)
	}

	if err != nil {
		d.Message = err.Error()
	} else {
		d.Success = true
		d.Message = "sent"
	}
	if svc.recorder != nil {
		svc.recorder.Record(string(channel), d.Success)
	}
	return d
}

func (svc *Service) sendSMS(ctx context.Context, to, body string) (string, error) {
	if to == "" {
		return "", ErrNoPhone
	}
	if svc.sms == nil {
		return "", ErrChannelUnavailable
	}
	return svc.sms.SendSMS(ctx, core.SMSMessage{To: to, Body: body})
}

func (svc *Service) sendEmail(ctx context.Context, s student.Student, subject, body string) error {
	if s.Email == "" {
		return ErrNoEmail
	}
	if svc.email == nil {
		return ErrChannelUnavailable
	}
	if subject == "" {
		subject = defaultSubject
	}
	return svc.email.SendMessage(ctx, &core.EmailMessage{
		To:      []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject: subject,
		Body:    body,
	})
}

// SendBulk notifies every selected student one after the other.
// A failed recipient is recorded and the remaining ones are still attempted.
func (svc *Service) SendBulk(ctx context.Context, req Request) (Report, error) {
	if err := req.Validate(svc.validate); err != nil {
		return Report{}, err
	}

	recipients, err := svc.ResolveRecipients(ctx, req.Criterion)
	if err != nil {
		return Report{}, err
	}
	if len(recipients) == 0 {
		return Report{}, core.NewValidationError(ErrNoRecipients, core.FieldError{Field: "criterion", Error: ErrNoRecipients.Error()})
	}

	report := Report{Total: len(recipients), Details: make([]Detail, 0, len(recipients))}
	for _, s := range recipients {
		d := svc.SendTo(ctx, req.Channel, s, req.Subject, req.Message)
		if d.Success {
			report.Sent++
		} else {
			report.Failed++
		}
		report.Details = append(report.Details, d)
	}
	report.summarize()

	if svc.logger != nil {
		svc.logger.Info(report.Message, map[string]interface{}{
			"channel": req.Channel,
			"kind":    req.Criterion.Kind,
			"sent":    report.Sent,
			"failed":  report.Failed,
		})
	}
	return report, nil
}

func (r *Report) summarize() {
	switch {
	case r.Failed == 0:
		r.Status = StatusSent
		r.Message = fmt.Sprintf("Successfully sent notifications to all %d students", r.Sent)
	case r.Sent == 0:
		r.Status = StatusFailed
		r.Message = "Failed to send all notifications"
	default:
		r.Status = StatusPartial
		r.Message = fmt.Sprintf("Sent %d notifications, %d failed", r.Sent, r.Failed)
	}
}
