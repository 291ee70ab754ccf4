package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/abctechblog/blogfront/internal/domain/contact"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/mocks"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/validation"
)

func newContactFixture(t *testing.T) (*mocks.MockContactRelay, *notify.Tray, *ContactForm) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	relay := mocks.NewMockContactRelay(ctrl)
	tray := notify.NewTray(notify.TrayOptions{})
	form := NewContactForm(ContactFormOptions{Relay: relay, Effects: ViewEffects{Notices: tray}})
	return relay, tray, form
}

var testMessage = contact.Message{Name: "Ada", Email: "ada@example.com", Subject: "Hello", Message: "Nice blog"}

func TestContactForm_SubmitSuccess(t *testing.T) {
	relay, tray, form := newContactFixture(t)
	form.Edit(contact.Message{Name: " Ada ", Email: "ada@example.com", Subject: "Hello", Message: "Nice blog"})

	relay.EXPECT().Submit(gomock.Any(), testMessage).
		DoAndReturn(func(context.Context, contact.Message) error {
			view := form.View()
			assert.Equal(t, ContactSending, view.Status)
			assert.Equal(t, MsgContactSending, view.Result)
			return nil
		})

	require.NoError(t, form.Submit(context.Background()))

	view := form.View()
	assert.Equal(t, ContactSent, view.Status)
	assert.Equal(t, MsgContactSent, view.Result)
	assert.Equal(t, contact.Message{}, view.Message, "fields are cleared after success")

	notices := tray.Active()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.ToneSuccess, notices[0].Tone)
}

func TestContactForm_ValidationMakesNoRequest(t *testing.T) {
	_, _, form := newContactFixture(t)
	form.Edit(contact.Message{Name: "Ada", Email: "not-an-email", Subject: "Hi", Message: "x"})

	err := form.Submit(context.Background())
	require.Error(t, err)

	view := form.View()
	assert.Equal(t, ContactFailed, view.Status)
	assert.Equal(t, validation.MsgContactEmailFmt, view.Result)
	assert.Equal(t, "email", view.Field)
}

func TestContactForm_RelayFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "relay message", err: apperrors.Rejected(400, "Invalid access key"), want: "Invalid access key"},
		{name: "no message", err: apperrors.Rejected(400, ""), want: MsgContactFailed},
		{name: "network", err: apperrors.Network(errors.New("dial"), ""), want: MsgNetworkConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relay, tray, form := newContactFixture(t)
			form.Edit(testMessage)
			relay.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(tt.err)

			require.Error(t, form.Submit(context.Background()))

			view := form.View()
			assert.Equal(t, ContactFailed, view.Status)
			assert.Equal(t, tt.want, view.Result)
			assert.Equal(t, testMessage, view.Message, "fields are kept for another try")
			require.Len(t, tray.Active(), 1)
			assert.Equal(t, notify.ToneError, tray.Active()[0].Tone)
		})
	}
}

func TestContactForm_EditClearsResult(t *testing.T) {
	relay, _, form := newContactFixture(t)
	form.Edit(testMessage)
	relay.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(apperrors.Rejected(400, "nope"))
	require.Error(t, form.Submit(context.Background()))

	view := form.Edit(contact.Message{Name: "Ada B"})
	assert.Equal(t, ContactIdle, view.Status)
	assert.Empty(t, view.Result)
}

func TestContactForm_BusyWhileSending(t *testing.T) {
	relay, _, form := newContactFixture(t)
	form.Edit(testMessage)

	relay.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ contact.Message) error {
			assert.True(t, apperrors.IsBusy(form.Submit(ctx)))
			view := form.Edit(contact.Message{Name: "changed"})
			assert.Equal(t, testMessage, view.Message, "edits are ignored while sending")
			return nil
		}).
		Times(1)

	require.NoError(t, form.Submit(context.Background()))
}
