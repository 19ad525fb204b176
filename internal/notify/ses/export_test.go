package ses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"aria/internal/port"
)

// SendEmailFunc adapts a function to the SES client used by the notifier.
type SendEmailFunc func(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)

func (f SendEmailFunc) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	return f(ctx, params, optFns...)
}

func NewWithClient(f SendEmailFunc, from, to string) port.Notifier {
	return newNotifier(f, from, to)
}
