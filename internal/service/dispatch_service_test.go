package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/medha-kiot/command-center/internal/mail"
	"github.com/medha-kiot/command-center/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatchService(sender *MockSender, pauses *[]time.Duration) *DispatchService {
	return NewDispatchService(sender, mail.NewTemplate(mail.DefaultBrand), DispatchConfig{
		PauseEvery: 10,
		Pause:      time.Second,
	}).WithSleeper(func(d time.Duration) {
		if pauses != nil {
			*pauses = append(*pauses, d)
		}
	})
}

func addresses(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("leader%d@example.com", i))
	}
	return out
}

func TestDispatchService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.EmailDispatchRequest
		message string
	}{
		{
			name:    "blank subject",
			req:     model.EmailDispatchRequest{Mode: model.DispatchModeManual, To: "a@b.com", Subject: "   ", Body: "Hello"},
			message: "Subject and body are required",
		},
		{
			name:    "blank body",
			req:     model.EmailDispatchRequest{Mode: model.DispatchModeBroadcast, Recipients: []string{"a@b.com"}, Subject: "Hi", Body: "\n\t"},
			message: "Subject and body are required",
		},
		{
			name:    "unknown mode",
			req:     model.EmailDispatchRequest{Mode: "sms", To: "a@b.com", Subject: "Hi", Body: "Hello"},
			message: "Invalid mode. Use 'manual' or 'broadcast'",
		},
		{
			name:    "manual without recipient",
			req:     model.EmailDispatchRequest{Mode: model.DispatchModeManual, To: "  ", Subject: "Hi", Body: "Hello"},
			message: "Recipient email required for manual mode",
		},
		{
			name:    "broadcast without any valid address",
			req:     model.EmailDispatchRequest{Mode: model.DispatchModeBroadcast, Recipients: []string{"not-an-email", ""}, Subject: "Hi", Body: "Hello"},
			message: "No valid recipient email addresses",
		},
		{
			name:    "broadcast with explicit empty list",
			req:     model.EmailDispatchRequest{Mode: model.DispatchModeBroadcast, Recipients: []string{}, Subject: "Hi", Body: "Hello"},
			message: "No valid recipient email addresses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(MockSender)
			service := newDispatchService(sender, nil)

			res, err := service.SendMail(context.Background(), &tt.req)

			assert.Nil(t, res)
			require.NotNil(t, err)
			assert.Equal(t, ErrorCodeInvalidRequest, err.Code)
			assert.Equal(t, tt.message, err.Message)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDispatchService_Manual(t *testing.T) {
	tests := []struct {
		name          string
		configured    bool
		sendErr       error
		expectedError bool
		errorCode     ErrorCode
	}{
		{name: "success", configured: true},
		{
			name:          "credentials missing",
			configured:    false,
			expectedError: true,
			errorCode:     ErrorCodeCredentialsMissing,
		},
		{
			name:          "auth failure",
			configured:    true,
			sendErr:       errors.Wrap(mail.ErrAuth, "535 5.7.8 Username and Password not accepted"),
			expectedError: true,
			errorCode:     ErrorCodeAuthFailure,
		},
		{
			name:          "transport failure",
			configured:    true,
			sendErr:       errors.Wrap(mail.ErrTransport, "dial tcp: i/o timeout"),
			expectedError: true,
			errorCode:     ErrorCodeTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(MockSender)
			sender.On("Configured").Return(tt.configured)
			sender.On("Send", mock.Anything, "lead@kiot.ac.in", "Reporting time", "Report at 8:30", mock.AnythingOfType("string")).
				Return(tt.sendErr).Maybe()

			service := newDispatchService(sender, nil)

			res, err := service.SendMail(context.Background(), &model.EmailDispatchRequest{
				Mode:    model.DispatchModeManual,
				To:      " lead@kiot.ac.in ",
				Subject: " Reporting time ",
				Body:    "Report at 8:30",
			})

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, res)
			} else {
				assert.Nil(t, err)
				require.NotNil(t, res)
				assert.True(t, res.Success)
				assert.Equal(t, "Email sent to lead@kiot.ac.in", res.Message)
				assert.Nil(t, res.Sent)
				assert.Nil(t, res.Errors)
				sender.AssertNumberOfCalls(t, "Send", 1)
			}

			if !tt.configured {
				sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDispatchService_BroadcastPartialFailure(t *testing.T) {
	recipients := addresses(5)

	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.Anything, recipients[2], "Update", "Venue changed", mock.Anything).
		Return(errors.New("550 5.1.1 mailbox unavailable")).Once()
	sender.On("Send", mock.Anything, mock.Anything, "Update", "Venue changed", mock.Anything).Return(nil)

	service := newDispatchService(sender, nil)

	res, err := service.SendMail(context.Background(), &model.EmailDispatchRequest{
		Mode:       model.DispatchModeBroadcast,
		Recipients: recipients,
		Subject:    "Update",
		Body:       "Venue changed",
	})

	require.Nil(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 4, *res.Sent)
	assert.Equal(t, 5, *res.Total)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, recipients[2], res.Errors[0].Recipient)
	assert.Contains(t, res.Errors[0].Error, "mailbox unavailable")
	sender.AssertNumberOfCalls(t, "Send", 5)
}

func TestDispatchService_BroadcastKeepsListOrder(t *testing.T) {
	recipients := addresses(4)

	var order []string
	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.Anything, mock.Anything, "Hi", "Hello", mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, args.String(1)) }).
		Return(nil)

	res, err := newDispatchService(sender, nil).SendMail(context.Background(), &model.EmailDispatchRequest{
		Mode:       model.DispatchModeBroadcast,
		Recipients: recipients,
		Subject:    "Hi",
		Body:       "Hello",
	})

	require.Nil(t, err)
	assert.Equal(t, recipients, order)
	assert.Nil(t, res.Errors)
}

func TestDispatchService_BroadcastFiltering(t *testing.T) {
	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.Anything, "a@b.com", "Hi", "Hello", mock.Anything).Return(nil).Once()

	res, err := newDispatchService(sender, nil).SendMail(context.Background(), &model.EmailDispatchRequest{
		Mode:       model.DispatchModeBroadcast,
		Recipients: []string{"a@b.com", "not-an-email", ""},
		Subject:    "Hi",
		Body:       "Hello",
	})

	require.Nil(t, err)
	assert.Equal(t, 1, *res.Sent)
	assert.Equal(t, 1, *res.Total)
	sender.AssertExpectations(t)
}

func TestDispatchService_ThrottleBoundary(t *testing.T) {
	tests := []struct {
		name           string
		recipients     int
		failing        []int
		expectedPauses int
	}{
		{name: "21 recipients pause twice", recipients: 21, expectedPauses: 2},
		{name: "9 recipients never pause", recipients: 9, expectedPauses: 0},
		{name: "no pause after the final send", recipients: 20, expectedPauses: 1},
		{name: "failures do not count toward the threshold", recipients: 12, failing: []int{3, 7}, expectedPauses: 0},
		{name: "pause counts successes only", recipients: 13, failing: []int{0, 5}, expectedPauses: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipients := addresses(tt.recipients)

			sender := new(MockSender)
			sender.On("Configured").Return(true)
			for _, i := range tt.failing {
				sender.On("Send", mock.Anything, recipients[i], "Hi", "Hello", mock.Anything).Return(errors.New("rejected")).Once()
			}
			sender.On("Send", mock.Anything, mock.Anything, "Hi", "Hello", mock.Anything).Return(nil)

			var pauses []time.Duration
			res, err := newDispatchService(sender, &pauses).SendMail(context.Background(), &model.EmailDispatchRequest{
				Mode:       model.DispatchModeBroadcast,
				Recipients: recipients,
				Subject:    "Hi",
				Body:       "Hello",
			})

			require.Nil(t, err)
			assert.Equal(t, tt.recipients-len(tt.failing), *res.Sent)
			assert.Len(t, pauses, tt.expectedPauses)
			for _, p := range pauses {
				assert.Equal(t, time.Second, p)
			}
		})
	}
}

func TestDispatchService_BroadcastAuthFailureIsIsolated(t *testing.T) {
	recipients := addresses(3)

	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.Anything, mock.Anything, "Hi", "Hello", mock.Anything).
		Return(errors.Wrap(mail.ErrAuth, "535 bad credentials"))

	res, err := newDispatchService(sender, nil).SendMail(context.Background(), &model.EmailDispatchRequest{
		Mode:       model.DispatchModeBroadcast,
		Recipients: recipients,
		Subject:    "Hi",
		Body:       "Hello",
	})

	require.Nil(t, err)
	assert.Equal(t, 0, *res.Sent)
	assert.Equal(t, 3, *res.Total)
	assert.Len(t, res.Errors, 3)
	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestDispatchService_BroadcastFromStore(t *testing.T) {
	tests := []struct {
		name          string
		withRepo      bool
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		errorCode     ErrorCode
		expectedTotal int
	}{
		{
			name:     "leader emails are filtered and deduplicated",
			withRepo: true,
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListLeaderEmails", mock.Anything).Return([]string{"a@kiot.ac.in", "-", "A@kiot.ac.in", "b@psg.edu"}, nil)
			},
			expectedTotal: 2,
		},
		{
			name:     "store failure",
			withRepo: true,
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListLeaderEmails", mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeStoreUnavailable,
		},
		{
			name:          "no store configured",
			setupMocks:    func(tr *MockTeamRepository) {},
			expectedError: true,
			errorCode:     ErrorCodeStoreUnavailable,
		},
		{
			name:     "store has no usable addresses",
			withRepo: true,
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("ListLeaderEmails", mock.Anything).Return([]string{}, nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := new(MockTeamRepository)
			tt.setupMocks(teams)

			sender := new(MockSender)
			sender.On("Configured").Return(true)
			sender.On("Send", mock.Anything, mock.Anything, "Hi", "Hello", mock.Anything).Return(nil)

			service := newDispatchService(sender, nil)
			if tt.withRepo {
				service.WithTeamRepo(teams)
			}

			res, err := service.SendMail(context.Background(), &model.EmailDispatchRequest{
				Mode:    model.DispatchModeBroadcast,
				Subject: "Hi",
				Body:    "Hello",
			})

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.expectedTotal, *res.Total)
				assert.Equal(t, tt.expectedTotal, *res.Sent)
			}

			teams.AssertExpectations(t)
		})
	}
}

func TestDispatchService_CancelledCallerDoesNotStopBroadcast(t *testing.T) {
	recipients := addresses(3)

	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything, "Hi", "Hello", mock.Anything).
		Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newDispatchService(sender, nil).SendMail(ctx, &model.EmailDispatchRequest{
		Mode:       model.DispatchModeBroadcast,
		Recipients: recipients,
		Subject:    "Hi",
		Body:       "Hello",
	})

	require.Nil(t, err)
	assert.Equal(t, 3, *res.Sent)
}

func TestDispatchService_HTMLBodyIsBranded(t *testing.T) {
	sender := new(MockSender)
	sender.On("Configured").Return(true)
	sender.On("Send", mock.Anything, "a@b.com", "Hi", "Hello", mock.MatchedBy(func(html string) bool {
		return strings.Contains(html, "MEDHA Command Center") &&
			strings.Contains(html, ">Hi</h2>") &&
			strings.Contains(html, "Hello")
	})).Return(nil).Once()

	_, err := newDispatchService(sender, nil).SendMail(context.Background(), &model.EmailDispatchRequest{
		Mode:    model.DispatchModeManual,
		To:      "a@b.com",
		Subject: "Hi",
		Body:    "Hello",
	})

	require.Nil(t, err)
	sender.AssertExpectations(t)
}
