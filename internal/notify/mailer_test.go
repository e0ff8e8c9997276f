package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours-workers/internal/common/logger"
)

type fakeEmailAPI struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeEmailAPI) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, input)
	return &ses.SendEmailOutput{}, nil
}

func TestMailer_SendCredentials(t *testing.T) {
	api := &fakeEmailAPI{}
	m := NewMailer(api, "noreply@concours.tn", true, logger.NewNoOpLogger())

	err := m.SendCredentials(context.Background(), "candidate@example.tn", "Xy23abCd45ef")

	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	assert.Equal(t, "noreply@concours.tn", *api.sent[0].Source)
	assert.Equal(t, []string{"candidate@example.tn"}, api.sent[0].Destination.ToAddresses)
	assert.Contains(t, *api.sent[0].Message.Body.Text.Data, "Xy23abCd45ef")
}

func TestMailer_DisabledSkipsDelivery(t *testing.T) {
	api := &fakeEmailAPI{err: assert.AnError}
	m := NewMailer(api, "noreply@concours.tn", false, logger.NewNoOpLogger())

	err := m.SendDecision(context.Background(), "candidate@example.tn", "Accepted", "Congratulations")

	assert.NoError(t, err)
	assert.Empty(t, api.sent)
}

func TestMailer_SendFailureIsReported(t *testing.T) {
	api := &fakeEmailAPI{err: assert.AnError}
	m := NewMailer(api, "noreply@concours.tn", true, logger.NewNoOpLogger())

	err := m.SendDecision(context.Background(), "candidate@example.tn", "Accepted", "Congratulations")

	assert.Error(t, err)
}
