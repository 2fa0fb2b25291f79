package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/BruksfildServices01/smartq/internal/config"
)

// Notifier delivers a text message to a client's phone.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

// Closer is implemented by notifiers that hold connections.
type Closer interface {
	Close() error
}

// New picks the provider named by cfg.SMSProvider. Misconfigured providers
// fall back to logging so enqueue keeps working.
func New(cfg *config.Config) Notifier {
	switch cfg.SMSProvider {
	case "", "log":
		return LogNotifier{}
	case "noop":
		return NoopNotifier{}
	case "webhook":
		if cfg.SMSWebhookURL == "" {
			log.Println("notify: SMS_WEBHOOK_URL empty, falling back to log provider")
			return LogNotifier{}
		}
		return NewWebhookNotifier(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	case "amqp":
		n, err := NewAMQPNotifier(cfg.AMQPUrl, cfg.SMSQueue)
		if err != nil {
			log.Printf("notify: amqp unavailable, falling back to log provider: %v", err)
			return LogNotifier{}
		}
		return n
	default:
		log.Printf("notify: unknown SMS_PROVIDER %q, using log provider", cfg.SMSProvider)
		return LogNotifier{}
	}
}

// TicketMessage is the text sent to a client after joining a queue.
func TicketMessage(queueNumber, serviceName, counter string, position, waitMinutes int) string {
	return fmt.Sprintf(
		"SmartQ: Your ticket %s for %s at %s. Position: #%d. Estimated wait: %d min.",
		queueNumber, serviceName, counter, position, waitMinutes,
	)
}
