package services

import (
	"context"
	"emd/internal/models"
	"emd/internal/structures"
	"emd/internal/testutil"
	"emd/internal/upstream"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(client upstream.ClientInterface, attempts int) AccountServiceInterface {
	conf := &structures.Config{
		Upstream: structures.Upstream{
			BaseUrl:           "http://127.0.0.1:1",
			RequestTimeout:    time.Second,
			BootstrapAttempts: attempts,
		},
	}
	fetcher := upstream.NewRetryingFetcher(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	fetcher.Sleep = func(time.Duration) {}
	return NewAccountService(client, fetcher, &testutil.MockLogger{})
}

func TestResolveBootstrapAccount_AdoptsBackendAccount(t *testing.T) {
	client := &testutil.MockUpstream{
		HealthFn: func(_ context.Context) (upstream.Health, error) {
			return upstream.Health{Status: "healthy", CurrentEmail: "me@gmail.com", Service: "gmail"}, nil
		},
	}
	as := newAccountService(client, 3)

	as.ResolveBootstrapAccount(context.Background())

	assert.Equal(t, "me@gmail.com", as.Selected())
	assert.Empty(t, as.BootstrapError())
}

func TestResolveBootstrapAccount_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	client := &testutil.MockUpstream{
		HealthFn: func(_ context.Context) (upstream.Health, error) {
			calls++
			if calls < 3 {
				return upstream.Health{}, errors.New("not ready")
			}
			return upstream.Health{CurrentEmail: "me@gmail.com"}, nil
		},
	}
	as := newAccountService(client, 3)

	as.ResolveBootstrapAccount(context.Background())

	assert.Equal(t, 3, calls)
	assert.Equal(t, "me@gmail.com", as.Selected())
	assert.Empty(t, as.BootstrapError())
}

func TestResolveBootstrapAccount_ExhaustedBudgetSetsStandingError(t *testing.T) {
	client := &testutil.MockUpstream{
		HealthFn: func(_ context.Context) (upstream.Health, error) {
			return upstream.Health{}, errors.New("connection refused")
		},
	}
	as := newAccountService(client, 3)

	as.ResolveBootstrapAccount(context.Background())

	assert.Empty(t, as.Selected())
	assert.Equal(t, upstream.MsgGeneric, as.BootstrapError())
	assert.Len(t, client.Calls(), 3)
}

func TestResolveBootstrapAccount_EmptyEmailLeavesSelectionEmpty(t *testing.T) {
	client := &testutil.MockUpstream{
		HealthFn: func(_ context.Context) (upstream.Health, error) {
			return upstream.Health{Status: "degraded"}, nil
		},
	}
	as := newAccountService(client, 1)

	as.ResolveBootstrapAccount(context.Background())

	assert.Empty(t, as.Selected())
	assert.Empty(t, as.BootstrapError())
}

func TestSelect_UserChoiceIsAuthoritative(t *testing.T) {
	client := &testutil.MockUpstream{
		HealthFn: func(_ context.Context) (upstream.Health, error) {
			return upstream.Health{CurrentEmail: "other@gmail.com"}, nil
		},
	}
	as := newAccountService(client, 1)

	require.NoError(t, as.Select(context.Background(), "mine@outlook.com"))
	as.ResolveBootstrapAccount(context.Background())

	// A late bootstrap resolution never overrides an explicit choice.
	assert.Equal(t, "mine@outlook.com", as.Selected())
}

func TestSelect_UpstreamFailureLeavesSelectionUnchanged(t *testing.T) {
	client := &testutil.MockUpstream{
		SetEmailFn: func(_ context.Context, _ string) error {
			return &upstream.StatusError{StatusCode: 400, Detail: "Invalid email address"}
		},
	}
	as := newAccountService(client, 1)

	err := as.Select(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid email address", upstream.UserMessage(err))
	assert.Empty(t, as.Selected())
}

func TestAccounts_FillsMissingService(t *testing.T) {
	client := &testutil.MockUpstream{
		AccountsFn: func(_ context.Context) ([]models.Account, error) {
			return []models.Account{
				{Email: "a@gmail.com", Service: "gmail", IsConfigured: true},
				{Email: "b@hotmail.com"},
			}, nil
		},
	}
	as := newAccountService(client, 1)

	accounts, err := as.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "gmail", accounts[0].Service)
	assert.Equal(t, "outlook", accounts[1].Service)
}

func TestDetectService(t *testing.T) {
	assert.Equal(t, "outlook", DetectService("a@outlook.com"))
	assert.Equal(t, "outlook", DetectService("a@hotmail.com"))
	assert.Equal(t, "outlook", DetectService("a@live.com"))
	assert.Equal(t, "outlook", DetectService("a@office365.com"))
	assert.Equal(t, "gmail", DetectService("a@gmail.com"))
	assert.Equal(t, "gmail", DetectService("a@custom-domain.io"))
	assert.Equal(t, "gmail", DetectService("not-an-email"))
}
