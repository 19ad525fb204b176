// Package notify selects the operator alert channel.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"aria/internal/config"
	"aria/internal/notify/noop"
	"aria/internal/notify/ses"
	"aria/internal/port"
)

// New builds the notifier named by cfg.Provider.
func New(ctx context.Context, cfg *config.NotifyConfig, log zerolog.Logger) (port.Notifier, error) {
	switch cfg.Provider {
	case "", "noop":
		return noop.NewNoopNotifier(log), nil
	case "ses":
		return ses.NewSESNotifier(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown notify provider: %s", cfg.Provider)
	}
}
