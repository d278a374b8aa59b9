package notification

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/college/core"
)

// Kind selects how recipients are resolved.
type Kind string

const (
	KindAll        Kind = "all"
	KindDepartment Kind = "department"
	KindYear       Kind = "year"
	KindStudents   Kind = "students" // explicit id list
	KindStudent    Kind = "student"
	KindClass      Kind = "class" // students enrolled in a class schedule
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Report statuses
const (
	StatusSent    = "sent"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

type Criterion struct {
	Kind            Kind    `json:"kind" query:"kind" validate:"required,oneof=all department year students student class"`
	Department      string  `json:"department" query:"department" validate:"required_if=Kind department"`
	Year            int     `json:"year" query:"year" validate:"required_if=Kind year,gte=0,max=8"`
	StudentIDs      []int64 `json:"student_ids" query:"student_id" validate:"required_if=Kind students"`
	StudentID       int64   `json:"student_id" query:"student" validate:"required_if=Kind student"`
	ClassScheduleID int64   `json:"class_schedule_id" query:"class_schedule_id" validate:"required_if=Kind class"`
}

func (c *Criterion) Clean() {
	c.Kind = Kind(core.CleanString(string(c.Kind), true /* lower */))
	c.Department = core.CleanString(c.Department)
}

// Request is a bulk notification order.
type Request struct {
	Criterion Criterion `json:"criterion"`
	Message   string    `json:"message" validate:"required,notblank,max=1600"`
	Subject   string    `json:"subject" validate:"max=200"` // email only
	Channel   Channel   `json:"channel" validate:"omitempty,oneof=sms email"`
}

func (r *Request) Validate(validate *validator.Validate) error {
	r.Criterion.Clean()
	r.Message = core.CleanString(r.Message)
	r.Subject = core.CleanString(r.Subject)
	r.Channel = Channel(core.CleanString(string(r.Channel), true /* lower */))
	if r.Channel == "" {
		r.Channel = ChannelSMS
	}
	return validate.Struct(r)
}

// Detail is the outcome of a single send.
type Detail struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	Recipient   string `json:"recipient"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SID         string `json:"sid,omitempty"`
}

// Report aggregates the outcomes of a bulk send.
type Report struct {
	Total   int      `json:"total"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []Detail `json:"details"`
}
