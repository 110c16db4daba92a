package controllers

import (
	"emd/internal/models"
	"emd/internal/providers"
	"emd/internal/services"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type DashboardController struct {
	logger   providers.Logger
	query    services.QueryServiceInterface
	search   services.SearchServiceInterface
	accounts services.AccountServiceInterface
	cache    providers.CacheProviderInterface
}

func NewDashboardController(logger providers.Logger, query services.QueryServiceInterface, search services.SearchServiceInterface, accounts services.AccountServiceInterface, cache providers.CacheProviderInterface) *DashboardController {
	return &DashboardController{
		logger:   logger,
		query:    query,
		search:   search,
		accounts: accounts,
		cache:    cache,
	}
}

// snapshotResponse is the full view the rendering front end consumes.
type snapshotResponse struct {
	models.QuerySnapshot
	AvgResponseLabel string               `json:"avgResponseLabel"`
	SelectedAccount  string               `json:"selectedAccount,omitempty"`
	BootstrapError   string               `json:"bootstrapError,omitempty"`
	Search           *models.SearchResult `json:"search,omitempty"`
	SearchError      string               `json:"searchError,omitempty"`
}

func (dc *DashboardController) buildSnapshot() snapshotResponse {
	snap := dc.query.Snapshot()
	resp := snapshotResponse{
		QuerySnapshot:    snap,
		AvgResponseLabel: models.FormatResponseTime(snap.Stats.AvgResponse),
		SelectedAccount:  dc.accounts.Selected(),
		BootstrapError:   dc.accounts.BootstrapError(),
		SearchError:      dc.search.ErrorMessage(),
	}
	if result, ok := dc.search.Result(); ok {
		resp.Search = &result
	}
	return resp
}

func (dc *DashboardController) writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (dc *DashboardController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := dc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (dc *DashboardController) decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// GetSnapshot returns the current query snapshot. Never cached: the front
// end polls it for loading and error state.
func (dc *DashboardController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	dc.writeJSON(w, http.StatusOK, dc.buildSnapshot())
}

// CommitWindow commits a pending time-window value edit and, when the edit
// is accepted, runs the refresh for the new window. A value that does not
// parse is silently ignored and the unchanged snapshot is returned.
func (dc *DashboardController) CommitWindow(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Value string `json:"value"`
	}
	if !dc.decodeBody(w, r, &payload) {
		return
	}
	if dc.query.CommitWindowValue(payload.Value) {
		dc.query.Refresh(r.Context(), dc.accounts.Selected())
	}
	dc.writeJSON(w, http.StatusOK, dc.buildSnapshot())
}

// ChangeWindowUnit switches the window unit, re-expressing the same elapsed
// duration, and refreshes when the canonical window changed.
func (dc *DashboardController) ChangeWindowUnit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Unit string `json:"unit"`
	}
	if !dc.decodeBody(w, r, &payload) {
		return
	}
	unit, ok := models.ParseUnit(payload.Unit)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if dc.query.ChangeWindowUnit(unit) {
		dc.query.Refresh(r.Context(), dc.accounts.Selected())
	}
	dc.writeJSON(w, http.StatusOK, dc.buildSnapshot())
}

// RefreshNow forces a refresh cycle for the committed window.
func (dc *DashboardController) RefreshNow(w http.ResponseWriter, r *http.Request) {
	dc.query.Refresh(r.Context(), dc.accounts.Selected())
	dc.writeJSON(w, http.StatusOK, dc.buildSnapshot())
}

// Search runs a sender search against the selected account and committed
// window. Issued reports whether a request actually went out; precondition
// failures and an in-flight search both come back as issued=false.
func (dc *DashboardController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	issued := dc.search.Search(r.Context(), term, dc.accounts.Selected(), dc.query.Window())

	resp := struct {
		Issued       bool                 `json:"issued"`
		Result       *models.SearchResult `json:"result,omitempty"`
		ErrorMessage string               `json:"errorMessage,omitempty"`
	}{Issued: issued, ErrorMessage: dc.search.ErrorMessage()}
	if result, ok := dc.search.Result(); ok {
		resp.Result = &result
	}
	dc.writeJSON(w, http.StatusOK, resp)
}

// GetAccounts lists the configured accounts, briefly cached.
func (dc *DashboardController) GetAccounts(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "accounts", func() (any, error) {
		return dc.accounts.Accounts(r.Context())
	})
}

// SelectAccount switches the active account, clears the account-scoped
// search result and refreshes the dashboard for the new selection.
func (dc *DashboardController) SelectAccount(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if !dc.decodeBody(w, r, &payload) {
		return
	}
	if payload.Email == "" || !containsAt(payload.Email) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := dc.accounts.Select(r.Context(), payload.Email); err != nil {
		dc.logger.Errorf(providers.TypeUpstream, "account selection failed: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	dc.search.Clear()
	dc.query.Refresh(r.Context(), payload.Email)
	dc.writeJSON(w, http.StatusOK, dc.buildSnapshot())
}

func containsAt(email string) bool {
	for _, c := range email {
		if c == '@' {
			return true
		}
	}
	return false
}
