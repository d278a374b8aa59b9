package smssvc

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
)

// ConsoleService prints text messages instead of delivering them.
type ConsoleService struct {
	disableOutput bool
	failFor       map[string]bool

	mu   sync.Mutex
	sent []core.SMSMessage
}

var _ core.SMSService = (*ConsoleService)(nil)

func NewConsoleService() *ConsoleService {
	return &ConsoleService{}
}

// NewConsoleServiceMock records messages silently and fails for the given numbers.
func NewConsoleServiceMock(failFor ...string) *ConsoleService {
	svc := &ConsoleService{disableOutput: true, failFor: make(map[string]bool, len(failFor))}
	for _, num := range failFor {
		svc.failFor[num] = true
	}
	return svc
}

func (svc *ConsoleService) SendSMS(_ context.Context, msg core.SMSMessage) (string, error) {
	if msg.To == "" || msg.Body == "" {
		return "", core.ErrEmptyMessage
	}
	if svc.failFor[msg.To] {
		return "", errors.Errorf("unable to reach %s", msg.To)
	}

	svc.mu.Lock()
	svc.sent = append(svc.sent, msg)
	sid := "SM" + strconv.Itoa(len(svc.sent))
	svc.mu.Unlock()

	if !svc.disableOutput {
		log.Printf("SMS %s to %s: %s\n", sid, msg.To, msg.Body)
	}
	return sid, nil
}

// SentMessages returns a copy of every message sent so far.
func (svc *ConsoleService) SentMessages() []core.SMSMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.SMSMessage(nil), svc.sent...)
}
