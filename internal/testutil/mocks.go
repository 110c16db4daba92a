package testutil

import (
	"context"
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/upstream"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.Logs...)
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	Requests      int
	Upstream      int
	Retries       int
	Refreshes     int
	StaleDiscards int
	CacheHits     int
	CacheMisses   int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncUpstreamRequests(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upstream++
}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncUpstreamRetries(_ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries++
}
func (m *MockMetrics) IncRefreshes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}
func (m *MockMetrics) IncStaleDiscards() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleDiscards++
}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// MockUpstream implements upstream.ClientInterface with injectable behavior
// and records the order of calls.
type MockUpstream struct {
	mu    sync.Mutex
	calls []string

	StatsFn    func(ctx context.Context, hours int, account string) (models.EmailStats, error)
	ActivityFn func(ctx context.Context, hours int) ([]models.ActivityBucket, error)
	SearchFn   func(ctx context.Context, account, term string, hours int) (models.SearchResult, error)
	AccountsFn func(ctx context.Context) ([]models.Account, error)
	HealthFn   func(ctx context.Context) (upstream.Health, error)
	SetEmailFn func(ctx context.Context, email string) error
}

func (m *MockUpstream) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns a copy of the recorded call order.
func (m *MockUpstream) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockUpstream) EmailStats(ctx context.Context, hours int, account string) (models.EmailStats, error) {
	m.record("stats")
	if m.StatsFn != nil {
		return m.StatsFn(ctx, hours, account)
	}
	return models.EmailStats{}, nil
}

func (m *MockUpstream) EmailActivity(ctx context.Context, hours int) ([]models.ActivityBucket, error) {
	m.record("activity")
	if m.ActivityFn != nil {
		return m.ActivityFn(ctx, hours)
	}
	return nil, nil
}

func (m *MockUpstream) EmailSearch(ctx context.Context, account, term string, hours int) (models.SearchResult, error) {
	m.record("search")
	if m.SearchFn != nil {
		return m.SearchFn(ctx, account, term, hours)
	}
	return models.SearchResult{}, nil
}

func (m *MockUpstream) Accounts(ctx context.Context) ([]models.Account, error) {
	m.record("accounts")
	if m.AccountsFn != nil {
		return m.AccountsFn(ctx)
	}
	return nil, nil
}

func (m *MockUpstream) Health(ctx context.Context) (upstream.Health, error) {
	m.record("health")
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return upstream.Health{}, nil
}

func (m *MockUpstream) SetEmailService(ctx context.Context, email string) error {
	m.record("set-email")
	if m.SetEmailFn != nil {
		return m.SetEmailFn(ctx, email)
	}
	return nil
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}
