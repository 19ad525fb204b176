// Package ses delivers operator alerts through Amazon SES.
package ses

import (
	"context"
	"fmt"
	"html"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"aria/internal/config"
	"aria/internal/domain"
	"aria/internal/port"
)

const fromName = "ARIA Alerts"

// emailClient is the subset of the SESv2 client used here.
type emailClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      emailClient
	fromAddress string
	toAddress   string
}

// NewSESNotifier creates a new SES-backed Notifier that mails the operator address.
func NewSESNotifier(ctx context.Context, cfg *config.NotifyConfig) (port.Notifier, error) {
	if cfg.ToAddress == "" {
		return nil, fmt.Errorf("notify.to_address is required for the ses notifier")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newNotifier(sesv2.NewFromConfig(awsCfg), cfg.FromAddress, cfg.ToAddress), nil
}

func newNotifier(client emailClient, fromAddress, toAddress string) *sesNotifier {
	return &sesNotifier{client: client, fromAddress: fromAddress, toAddress: toAddress}
}

func (s *sesNotifier) NotifyPendingMint(ctx context.Context, pending *domain.PendingMint) error {
	subject := fmt.Sprintf("[ARIA] Mint failed for %s", pending.ContentID)
	textBody := buildPendingMintText(pending)
	htmlBody := buildPendingMintHTML(pending)
	from := fmt.Sprintf("%s <%s>", fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// remediation tells the operator how to finish the mint. Only registry entries can be retried by ID.
func remediation(p *domain.PendingMint) string {
	if p.Persisted {
		return fmt.Sprintf("Retry with: reconcile retry %s", p.ID)
	}
	return fmt.Sprintf("This failure is not in the pending-mint registry. Mint manually for recipient %s and content ID %s.",
		p.Recipient, p.ContentID)
}

func buildPendingMintText(p *domain.PendingMint) string {
	return fmt.Sprintf("An attestation was published but could not be minted.\n\n"+
		"Pending ID: %s\nRun ID: %s\nRecipient: %s\nContent ID: %s\nArtifact: %s\nFile: %s\nError: %s\nRecorded: %s\n\n%s\n",
		p.ID, p.RunID, p.Recipient, p.ContentID, p.ArtifactURL, p.Filename, p.LastError,
		p.CreatedAt.Format(time.RFC3339), remediation(p))
}

func buildPendingMintHTML(p *domain.PendingMint) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #B91C1C;">Mint failed after publish</h2>
  <p>An attestation was published but could not be minted. It is waiting for reconciliation.</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Pending ID</td><td><code>%s</code></td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Recipient</td><td><code>%s</code></td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Content ID</td><td><a href="%s">%s</a></td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">File</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #666;">Error</td><td style="word-break: break-all;">%s</td></tr>
  </table>
  <p>%s</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">ARIA - AI Verified Real World Assets</p>
</body>
</html>`,
		p.ID,
		html.EscapeString(p.Recipient),
		html.EscapeString(p.ArtifactURL), html.EscapeString(p.ContentID),
		html.EscapeString(p.Filename),
		html.EscapeString(p.LastError),
		html.EscapeString(remediation(p)))
}
