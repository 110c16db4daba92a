package services

import (
	"context"
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/upstream"
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// SearchServiceInterface runs on-demand sender searches scoped to the
// selected account and the committed window.
type SearchServiceInterface interface {
	Search(ctx context.Context, term, account string, window models.TimeWindow) bool
	Result() (models.SearchResult, bool)
	ErrorMessage() string
	Clear()
}

type SearchService struct {
	client upstream.ClientInterface
	logger providers.Logger

	inFlight atomic.Bool

	mu     sync.RWMutex
	result *models.SearchResult
	errMsg string
}

func NewSearchService(client upstream.ClientInterface, logger providers.Logger) SearchServiceInterface {
	return &SearchService{
		client: client,
		logger: logger,
	}
}

// Search issues a single search request. Failed preconditions make it a
// silent no-op, and a search already in flight suppresses a new one — never
// queues it. A failed search keeps the previous result on screen; only a
// later success replaces it. Returns whether a request was issued.
func (ss *SearchService) Search(ctx context.Context, term, account string, window models.TimeWindow) bool {
	term = strings.TrimSpace(term)
	if term == "" || account == "" || window.Hours() <= 0 {
		return false
	}
	if !ss.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer ss.inFlight.Store(false)

	// A new attempt clears the stale error, not the previous result.
	ss.mu.Lock()
	ss.errMsg = ""
	ss.mu.Unlock()

	result, err := ss.client.EmailSearch(ctx, account, term, window.Hours())

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if err != nil {
		ss.logger.Errorf(providers.TypeUpstream, "search %q over %dh failed: %s", term, window.Hours(), err)
		ss.errMsg = upstream.UserMessage(err)
		return true
	}
	ss.result = &result
	return true
}

func (ss *SearchService) Result() (models.SearchResult, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	if ss.result == nil {
		return models.SearchResult{}, false
	}
	return *ss.result, true
}

func (ss *SearchService) ErrorMessage() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.errMsg
}

// Clear drops the stored result. Results are scoped to an account and are
// invalid the moment the selection changes.
func (ss *SearchService) Clear() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.result = nil
	ss.errMsg = ""
}
