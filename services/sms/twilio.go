package smssvc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/trezcool/college/core"
)

type TwilioService struct {
	client *twilio.RestClient
	from   string
}

var _ core.SMSService = (*TwilioService)(nil)

// NewTwilioService returns core.ErrNotConfigured when credentials are missing.
func NewTwilioService(conf core.TwilioConfig) (*TwilioService, error) {
	if conf.AccountSID == "" || conf.AuthToken == "" || conf.FromNumber == "" {
		return nil, core.ErrNotConfigured
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: conf.AccountSID,
		Password: conf.AuthToken,
	})
	return &TwilioService{client: client, from: conf.FromNumber}, nil
}

func (svc *TwilioService) SendSMS(_ context.Context, msg core.SMSMessage) (string, error) {
	if msg.To == "" || msg.Body == "" {
		return "", core.ErrEmptyMessage
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(svc.from)
	params.SetBody(msg.Body)

	resp, err := svc.client.Api.CreateMessage(params)
	if err != nil {
		return "", errors.Wrap(err, "sending sms")
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
