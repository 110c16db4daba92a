package services

import (
	"context"
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/upstream"
	"strings"
	"sync"
)

// AccountServiceInterface tracks which account is selected. Exactly one
// account, or none, is selected at any time; selection changes only through
// an explicit user choice or the one-shot bootstrap resolution.
type AccountServiceInterface interface {
	Selected() string
	Select(ctx context.Context, email string) error
	ResolveBootstrapAccount(ctx context.Context)
	Accounts(ctx context.Context) ([]models.Account, error)
	BootstrapError() string
}

type AccountService struct {
	client  upstream.ClientInterface
	fetcher *upstream.RetryingFetcher
	logger  providers.Logger

	mu           sync.RWMutex
	selected     string
	userSelected bool
	bootErr      string
}

func NewAccountService(client upstream.ClientInterface, fetcher *upstream.RetryingFetcher, logger providers.Logger) AccountServiceInterface {
	return &AccountService{
		client:  client,
		fetcher: fetcher,
		logger:  logger,
	}
}

func (as *AccountService) Selected() string {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return as.selected
}

// Select makes email the active account upstream and locally. An explicit
// selection is authoritative: a later bootstrap resolution never overrides
// it.
func (as *AccountService) Select(ctx context.Context, email string) error {
	if err := as.client.SetEmailService(ctx, email); err != nil {
		return err
	}
	as.mu.Lock()
	as.selected = email
	as.userSelected = true
	as.mu.Unlock()
	as.logger.Infof(providers.TypeApp, "Selected account %s", email)
	return nil
}

// ResolveBootstrapAccount asks the backend which account it is currently
// monitoring, with the retry budget of the fetcher. Invoked once at
// startup; failures become a standing bootstrap error, not a retry loop.
func (as *AccountService) ResolveBootstrapAccount(ctx context.Context) {
	var health upstream.Health
	err := as.fetcher.Do(ctx, "resolve-account", func(ctx context.Context) error {
		h, err := as.client.Health(ctx)
		if err != nil {
			return err
		}
		health = h
		return nil
	})

	as.mu.Lock()
	defer as.mu.Unlock()
	if err != nil {
		as.logger.Errorf(providers.TypeUpstream, "bootstrap account resolution failed: %s", err)
		as.bootErr = upstream.UserMessage(err)
		return
	}
	as.bootErr = ""
	if as.userSelected || health.CurrentEmail == "" {
		return
	}
	as.selected = health.CurrentEmail
	as.logger.Infof(providers.TypeApp, "Bootstrap resolved active account %s", health.CurrentEmail)
}

func (as *AccountService) Accounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := as.client.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Service == "" {
			accounts[i].Service = DetectService(accounts[i].Email)
		}
	}
	return accounts, nil
}

func (as *AccountService) BootstrapError() string {
	as.mu.RLock()
	defer as.mu.RUnlock()
	return as.bootErr
}

// DetectService guesses the provider from the address domain. Custom
// domains default to gmail, matching the backend's own detection.
func DetectService(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "gmail"
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range []string{"outlook.com", "hotmail.com", "live.com", "office365.com"} {
		if strings.Contains(domain, d) {
			return "outlook"
		}
	}
	return "gmail"
}
