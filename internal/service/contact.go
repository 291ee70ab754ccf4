package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abctechblog/blogfront/internal/domain/contact"
	apperrors "github.com/abctechblog/blogfront/internal/errors"
	"github.com/abctechblog/blogfront/internal/notify"
	"github.com/abctechblog/blogfront/internal/observability/metrics"
	"github.com/abctechblog/blogfront/internal/ports"
	"github.com/abctechblog/blogfront/internal/validation"
)

// Contact form messages.
const (
	MsgContactSending = "Sending..."
	MsgContactSent    = "Form Submitted Successfully! We'll get back to you soon."
	MsgContactFailed  = "Failed to submit form. Please try again."
)

// ContactStatus is the phase of the contact form.
type ContactStatus string

const (
	ContactIdle    ContactStatus = "idle"
	ContactSending ContactStatus = "sending"
	ContactSent    ContactStatus = "sent"
	ContactFailed  ContactStatus = "failed"
)

// ContactFormOptions groups dependencies for ContactForm.
type ContactFormOptions struct {
	Relay   ports.ContactRelay // Required
	Effects ViewEffects
	Metrics *metrics.FormRecorder
	Logger  *slog.Logger
}

// ContactView is a read-only copy of the contact form.
type ContactView struct {
	Message contact.Message `json:"message"`
	Status  ContactStatus   `json:"status"`
	Result  string          `json:"result,omitempty"`
	Field   string          `json:"field,omitempty"`
}

// ContactForm drives the contact page.
type ContactForm struct {
	relay   ports.ContactRelay
	effects ViewEffects
	metrics *metrics.FormRecorder
	logger  *slog.Logger

	mu     sync.Mutex
	msg    contact.Message
	status ContactStatus
	result string
	field  string
}

// NewContactForm constructs a ContactForm. It panics when Relay is nil.
func NewContactForm(opts ContactFormOptions) *ContactForm {
	if opts.Relay == nil {
		panic("service: ContactForm requires a ContactRelay")
	}
	return &ContactForm{
		relay:   opts.Relay,
		effects: opts.Effects,
		metrics: opts.Metrics,
		logger:  loggerOrDefault(opts.Logger, "contact_form"),
		status:  ContactIdle,
	}
}

// View returns a copy of the form state.
func (f *ContactForm) View() ContactView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *ContactForm) viewLocked() ContactView {
	return ContactView{Message: f.msg, Status: f.status, Result: f.result, Field: f.field}
}

// Edit replaces the field values and clears the previous result.
// Edits are ignored while a submission is in flight.
func (f *ContactForm) Edit(m contact.Message) ContactView {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == ContactSending {
		return f.viewLocked()
	}
	f.msg = m
	f.status = ContactIdle
	f.result = ""
	f.field = ""
	return f.viewLocked()
}

// Submit validates and relays the current message. The fields are cleared
// only when the relay accepts it.
func (f *ContactForm) Submit(ctx context.Context) (err error) {
	defer f.metrics.Since(metrics.FormContact, time.Now(), &err)

	f.mu.Lock()
	if f.status == ContactSending {
		f.mu.Unlock()
		return apperrors.Busy(MsgBusy)
	}
	msg := f.msg.Normalize()
	if vErr := validation.Contact(msg); vErr != nil {
		f.status = ContactFailed
		f.result = apperrors.UserMessage(vErr, MsgContactFailed)
		f.field = apperrors.GetField(vErr)
		f.mu.Unlock()
		return vErr
	}
	f.status = ContactSending
	f.result = MsgContactSending
	f.field = ""
	f.mu.Unlock()

	err = f.relay.Submit(ctx, msg)

	f.mu.Lock()
	if err != nil {
		f.status = ContactFailed
		f.result = failureMessage(err, MsgContactFailed)
		result := f.result
		f.mu.Unlock()
		f.logger.WarnContext(ctx, "contact relay failed", "error", err)
		f.effects.notify(notify.Error(noticeContact, result))
		return err
	}
	f.msg = contact.Message{}
	f.status = ContactSent
	f.result = MsgContactSent
	f.mu.Unlock()

	f.logger.InfoContext(ctx, "contact message relayed")
	f.effects.notify(notify.Success(noticeContact, MsgContactSent))
	return nil
}
