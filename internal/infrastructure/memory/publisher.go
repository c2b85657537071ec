package memory

import (
	"context"
	"log"

	"github.com/questrider/auth-service/internal/application/auth"
)

// NoopDelivery logs the code instead of publishing it. Dev fallback when
// RabbitMQ is not reachable; the code in the log is how you verify a
// local signup.
type NoopDelivery struct{}

func NewNoopDelivery() *NoopDelivery { return &NoopDelivery{} }

func (p *NoopDelivery) PublishOTPIssued(ctx context.Context, evt auth.OTPIssuedEvent) error {
	log.Printf("[noop-delivery] otp issued: email=%s code=%s expires_at=%s", evt.Email, evt.Code, evt.ExpiresAt)
	return nil
}
