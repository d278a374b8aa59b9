package smssvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/college/core"
)

func TestConsoleServiceMock(t *testing.T) {
	ctx := context.Background()
	svc := NewConsoleServiceMock("+15550000002")

	sid, err := svc.SendSMS(ctx, core.SMSMessage{To: "+15550000001", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "SM1", sid)

	_, err = svc.SendSMS(ctx, core.SMSMessage{To: "+15550000002", Body: "hello"})
	assert.Error(t, err)

	_, err = svc.SendSMS(ctx, core.SMSMessage{To: "+15550000003"})
	assert.ErrorIs(t, err, core.ErrEmptyMessage)

	assert.Len(t, svc.SentMessages(), 1)
}

func TestNewTwilioService_NotConfigured(t *testing.T) {
	_, err := NewTwilioService(core.TwilioConfig{AccountSID: "AC123"})
	assert.ErrorIs(t, err, core.ErrNotConfigured)
}
