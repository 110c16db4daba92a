package services

import (
	"context"
	"emd/internal/models"
	"emd/internal/testutil"
	"emd/internal/upstream"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window24() models.TimeWindow {
	return models.TimeWindow{Value: 24, Unit: models.UnitHours}
}

func TestSearch_PreconditionsMakeItANoop(t *testing.T) {
	client := &testutil.MockUpstream{}
	ss := NewSearchService(client, &testutil.MockLogger{})

	assert.False(t, ss.Search(context.Background(), "", "a@b.com", window24()))
	assert.False(t, ss.Search(context.Background(), "   ", "a@b.com", window24()))
	assert.False(t, ss.Search(context.Background(), "alice", "", window24()))
	assert.False(t, ss.Search(context.Background(), "alice", "a@b.com", models.TimeWindow{}))
	assert.Empty(t, client.Calls())
	assert.Empty(t, ss.ErrorMessage())
}

func TestSearch_SuccessStoresResult(t *testing.T) {
	client := &testutil.MockUpstream{
		SearchFn: func(_ context.Context, account, term string, hours int) (models.SearchResult, error) {
			assert.Equal(t, "a@b.com", account)
			assert.Equal(t, "alice", term)
			assert.Equal(t, 24, hours)
			return models.SearchResult{MatchCount: 3, SearchTerm: term, WindowHours: hours, WindowLabel: "24 hours"}, nil
		},
	}
	ss := NewSearchService(client, &testutil.MockLogger{})

	assert.True(t, ss.Search(context.Background(), " alice ", "a@b.com", window24()))

	result, ok := ss.Result()
	require.True(t, ok)
	assert.Equal(t, 3, result.MatchCount)
	assert.Equal(t, "alice", result.SearchTerm)
	assert.Empty(t, ss.ErrorMessage())
}

func TestSearch_FailureKeepsPreviousResult(t *testing.T) {
	fail := false
	client := &testutil.MockUpstream{
		SearchFn: func(_ context.Context, _, term string, _ int) (models.SearchResult, error) {
			if fail {
				return models.SearchResult{}, &upstream.StatusError{StatusCode: 504}
			}
			return models.SearchResult{MatchCount: 5, SearchTerm: term}, nil
		},
	}
	ss := NewSearchService(client, &testutil.MockLogger{})

	assert.True(t, ss.Search(context.Background(), "alice", "a@b.com", window24()))
	fail = true
	assert.True(t, ss.Search(context.Background(), "bob", "a@b.com", window24()))

	result, ok := ss.Result()
	require.True(t, ok)
	assert.Equal(t, "alice", result.SearchTerm)
	assert.Equal(t, upstream.MsgTimeout, ss.ErrorMessage())
}

func TestSearch_NewAttemptClearsStaleError(t *testing.T) {
	fail := true
	client := &testutil.MockUpstream{
		SearchFn: func(_ context.Context, _, term string, _ int) (models.SearchResult, error) {
			if fail {
				return models.SearchResult{}, &upstream.StatusError{StatusCode: 500}
			}
			return models.SearchResult{MatchCount: 1, SearchTerm: term}, nil
		},
	}
	ss := NewSearchService(client, &testutil.MockLogger{})

	ss.Search(context.Background(), "alice", "a@b.com", window24())
	assert.NotEmpty(t, ss.ErrorMessage())

	fail = false
	ss.Search(context.Background(), "alice", "a@b.com", window24())
	assert.Empty(t, ss.ErrorMessage())
}

func TestSearch_InFlightSuppressesNewRequest(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	client := &testutil.MockUpstream{
		SearchFn: func(_ context.Context, _, _ string, _ int) (models.SearchResult, error) {
			close(entered)
			<-block
			return models.SearchResult{MatchCount: 1}, nil
		},
	}
	ss := NewSearchService(client, &testutil.MockLogger{})

	done := make(chan struct{})
	go func() {
		assert.True(t, ss.Search(context.Background(), "alice", "a@b.com", window24()))
		close(done)
	}()
	<-entered

	// Suppressed, not queued.
	assert.False(t, ss.Search(context.Background(), "bob", "a@b.com", window24()))
	close(block)
	<-done

	assert.Len(t, client.Calls(), 1)
}

func TestClear_DropsResultAndError(t *testing.T) {
	client := &testutil.MockUpstream{
		SearchFn: func(_ context.Context, _, term string, _ int) (models.SearchResult, error) {
			return models.SearchResult{MatchCount: 2, SearchTerm: term}, nil
		},
	}
	ss := NewSearchService(client, &testutil.MockLogger{})
	ss.Search(context.Background(), "alice", "a@b.com", window24())

	ss.Clear()

	_, ok := ss.Result()
	assert.False(t, ok)
	assert.Empty(t, ss.ErrorMessage())
}
