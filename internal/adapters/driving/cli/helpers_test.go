package cli

import (
	"context"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/core/services"
)

type mockRetriever struct {
	hits []domain.RetrievalHit
	err  error

	lastQuery string
	lastOpts  driving.RetrieveOptions
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, opts driving.RetrieveOptions) ([]domain.RetrievalHit, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

// setupTestServices swaps the package-level services for test doubles
// and returns a cleanup that restores them.
func setupTestServices(hits []domain.RetrievalHit) func() {
	prevRetrieve := retrieveService
	prevFriend := friendService
	prevAudit := auditStore
	prevConfig := appConfig

	retrieveService = &mockRetriever{hits: hits}
	friendService = services.NewFriendService(nil)
	auditStore = nil
	appConfig = nil

	return func() {
		retrieveService = prevRetrieve
		friendService = prevFriend
		auditStore = prevAudit
		appConfig = prevConfig
	}
}
