package ses_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/config"
	"aria/internal/domain"
	"aria/internal/notify/ses"
)

func samplePending() *domain.PendingMint {
	return &domain.PendingMint{
		ID:          uuid.New(),
		RunID:       uuid.New(),
		Recipient:   "0xR1",
		ContentID:   "QmCID",
		ArtifactURL: "https://gateway.pinata.cloud/ipfs/QmCID",
		Filename:    "<invoice>.pdf",
		LastError:   "minting script failed with exit code 1: insufficient funds",
		Attempts:    1,
		Status:      domain.PendingMintStatusPending,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Persisted:   true,
	}
}

func TestSESNotifier_NotifyPendingMint(t *testing.T) {
	var captured *sesv2.SendEmailInput
	n := ses.NewWithClient(func(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
		captured = in
		return &sesv2.SendEmailOutput{}, nil
	}, "alerts@aria.local", "ops@aria.local")

	p := samplePending()
	require.NoError(t, n.NotifyPendingMint(context.Background(), p))

	require.NotNil(t, captured)
	assert.Equal(t, "ARIA Alerts <alerts@aria.local>", *captured.FromEmailAddress)
	assert.Equal(t, []string{"ops@aria.local"}, captured.Destination.ToAddresses)
	assert.Equal(t, "[ARIA] Mint failed for QmCID", *captured.Content.Simple.Subject.Data)
	text := *captured.Content.Simple.Body.Text.Data
	assert.Contains(t, text, p.ID.String())
	assert.Contains(t, text, "insufficient funds")
	assert.Contains(t, text, "reconcile retry "+p.ID.String())
	htmlBody := *captured.Content.Simple.Body.Html.Data
	assert.Contains(t, htmlBody, "&lt;invoice&gt;.pdf")
	assert.NotContains(t, htmlBody, "<invoice>")
}

func TestSESNotifier_UnrecordedPendingMintHasNoRetryHint(t *testing.T) {
	var captured *sesv2.SendEmailInput
	n := ses.NewWithClient(func(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
		captured = in
		return &sesv2.SendEmailOutput{}, nil
	}, "alerts@aria.local", "ops@aria.local")

	p := samplePending()
	p.Persisted = false
	require.NoError(t, n.NotifyPendingMint(context.Background(), p))

	require.NotNil(t, captured)
	for _, body := range []string{*captured.Content.Simple.Body.Text.Data, *captured.Content.Simple.Body.Html.Data} {
		assert.NotContains(t, body, "reconcile retry")
		assert.Contains(t, body, "not in the pending-mint registry")
		assert.Contains(t, body, "QmCID")
	}
}

func TestSESNotifier_SendError(t *testing.T) {
	n := ses.NewWithClient(func(context.Context, *sesv2.SendEmailInput, ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
		return nil, errors.New("throttled")
	}, "a@b", "c@d")

	err := n.NotifyPendingMint(context.Background(), samplePending())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewSESNotifier_RequiresRecipient(t *testing.T) {
	_, err := ses.NewSESNotifier(context.Background(), &config.NotifyConfig{Provider: "ses", Region: "us-east-1"})

	assert.Error(t, err)
}
