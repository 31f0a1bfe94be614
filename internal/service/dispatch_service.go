package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medha-kiot/command-center/internal/mail"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/medha-kiot/command-center/internal/repository"
	"github.com/medha-kiot/command-center/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type DispatchConfig struct {
	// PauseEvery and Pause implement the provider rate-limit accommodation:
	// after every PauseEvery successful sends the loop sleeps for Pause.
	PauseEvery int
	Pause      time.Duration
	// RatePerSec additionally spaces sends within one broadcast. Zero disables it.
	RatePerSec int
}

// DispatchService sends templated email to one recipient (manual) or a list
// (broadcast). Broadcast sends run sequentially and in list order. Nothing is
// shared between concurrent requests.
type DispatchService struct {
	sender   mail.Sender
	template *mail.Template
	teams    repository.TeamRepository

	throttle   ThrottlePolicy
	pause      time.Duration
	ratePerSec int
	sleep      func(time.Duration)
}

func NewDispatchService(sender mail.Sender, template *mail.Template, cfg DispatchConfig) *DispatchService {
	return &DispatchService{
		sender:     sender,
		template:   template,
		throttle:   EveryN(cfg.PauseEvery),
		pause:      cfg.Pause,
		ratePerSec: cfg.RatePerSec,
		sleep:      time.Sleep,
	}
}

// EmailConfigured reports whether the transport has credentials.
func (d *DispatchService) EmailConfigured() bool {
	return d.sender.Configured()
}

func (d *DispatchService) SendMail(ctx context.Context, req *model.EmailDispatchRequest) (*model.DispatchResult, *Error) {
	l := logger.FromContext(ctx).With(zap.String("mode", string(req.Mode)))

	NormalizeRequest(req)
	if err := ValidateRequest(req); err != nil {
		l.Warn("invalid dispatch request", zap.String("reason", err.Message))
		return nil, err
	}

	var recipients []string
	if req.Mode == model.DispatchModeManual {
		recipients = []string{req.To}
	} else {
		var serr *Error
		if recipients, serr = d.resolveRecipients(ctx, req.Recipients); serr != nil {
			return nil, serr
		}
		if len(recipients) == 0 {
			l.Warn("broadcast has no valid recipients")
			return nil, NewError(ErrorCodeInvalidRequest, "No valid recipient email addresses")
		}
	}

	if !d.sender.Configured() {
		l.Error("email credentials not configured")
		return nil, NewError(ErrorCodeCredentialsMissing,
			"Email credentials not configured. Set EMAIL_USER and EMAIL_PASS environment variables.")
	}

	html, err := d.template.Render(req.Subject, req.Body)
	if err != nil {
		l.Error("failed to render email", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to render email")
	}

	// once started, a dispatch runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	if req.Mode == model.DispatchModeManual {
		return d.sendManual(ctx, req, html)
	}
	return d.sendBroadcast(ctx, req, recipients, html), nil
}

func (d *DispatchService) sendManual(ctx context.Context, req *model.EmailDispatchRequest, html string) (*model.DispatchResult, *Error) {
	l := logger.FromContext(ctx)

	err := d.sender.Send(ctx, req.To, req.Subject, req.Body, html)
	switch {
	case err == nil:
		l.Info("email sent", zap.String("recipient", req.To), zap.String("sender_uid", req.SenderUID))
		return &model.DispatchResult{
			Success: true,
			Message: fmt.Sprintf("Email sent to %s", req.To),
		}, nil
	case errors.Is(err, mail.ErrNotConfigured):
		return nil, NewError(ErrorCodeCredentialsMissing,
			"Email credentials not configured. Set EMAIL_USER and EMAIL_PASS environment variables.")
	case errors.Is(err, mail.ErrAuth):
		l.Error("smtp authentication failed", zap.Error(err))
		return nil, NewError(ErrorCodeAuthFailure, "Gmail authentication failed. Check EMAIL_USER and EMAIL_PASS.")
	default:
		l.Error("failed to send email", zap.String("recipient", req.To), zap.Error(err))
		return nil, NewError(ErrorCodeTransport, fmt.Sprintf("Failed to send email: %s", err))
	}
}

func (d *DispatchService) sendBroadcast(ctx context.Context, req *model.EmailDispatchRequest, recipients []string, html string) *model.DispatchResult {
	l := logger.FromContext(ctx)
	start := time.Now()

	var limiter *rate.Limiter
	if d.ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(d.ratePerSec), 1)
	}

	sent := 0
	total := len(recipients)
	var failures []model.RecipientFailure

	for i, to := range recipients {
		if limiter != nil {
			// ctx is never cancelled here, so Wait only blocks for the next token
			_ = limiter.Wait(ctx)
		}

		if err := d.sender.Send(ctx, to, req.Subject, req.Body, html); err != nil {
			l.Warn("broadcast send failed", zap.String("recipient", to), zap.Error(err))
			failures = append(failures, model.RecipientFailure{Recipient: to, Error: err.Error()})
			continue
		}
		sent++

		if d.throttle.ShouldPause(sent) && i < total-1 {
			l.Debug("broadcast throttle pause", zap.Int("sent", sent), zap.Duration("pause", d.pause))
			d.sleep(d.pause)
		}
	}

	fields := []zap.Field{
		zap.Int("sent", sent),
		zap.Int("total", total),
		zap.Int("failed", len(failures)),
		zap.String("sender_uid", req.SenderUID),
		zap.Duration("took", time.Since(start)),
	}
	if len(failures) > 0 {
		l.Warn("broadcast finished with failures", fields...)
	} else {
		l.Info("broadcast finished", fields...)
	}

	return &model.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Broadcast sent to %d of %d recipients", sent, total),
		Sent:    &sent,
		Total:   &total,
		Errors:  failures,
	}
}

// resolveRecipients filters an explicit list, or loads team leader emails
// from the store when the request carries no list at all.
func (d *DispatchService) resolveRecipients(ctx context.Context, explicit []string) ([]string, *Error) {
	if explicit != nil {
		return FilterRecipients(explicit), nil
	}

	l := logger.FromContext(ctx)
	if d.teams == nil {
		l.Error("broadcast without recipients but no team store configured")
		return nil, NewError(ErrorCodeStoreUnavailable, "Team store not configured for broadcast mode")
	}

	emails, err := d.teams.ListLeaderEmails(ctx)
	if err != nil {
		l.Error("failed to load team leader emails", zap.Error(err))
		return nil, NewError(ErrorCodeStoreUnavailable, "Broadcast failed: could not load team leader emails")
	}

	return FilterRecipients(emails), nil
}

func (d *DispatchService) WithTeamRepo(r repository.TeamRepository) *DispatchService {
	d.teams = r
	return d
}

// WithSleeper replaces the function used for throttle pauses.
func (d *DispatchService) WithSleeper(sleep func(time.Duration)) *DispatchService {
	d.sleep = sleep
	return d
}
