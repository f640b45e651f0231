package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/yet-an-other/isplitapp-sub000/internal/storage/sqlite"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api/apiconnect"
)

type testClients struct {
	parties  apiconnect.PartyServiceClient
	expenses apiconnect.ExpenseServiceClient
}

// setupTestServer serves both services over HTTP on a fresh SQLite store.
func setupTestServer(t *testing.T, opts ...Option) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(NewExpenseService(store, opts...))
	partyPath, partyHandler := apiconnect.NewPartyServiceHandler(NewPartyService(store, opts...))

	mux := http.NewServeMux()
	mux.Handle(expensePath, expenseHandler)
	mux.Handle(partyPath, partyHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		parties:  apiconnect.NewPartyServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

// createParty creates a party and returns it with participant IDs by name.
func (c testClients) createParty(t *testing.T, names ...string) (*api.Party, map[string]string) {
	t.Helper()
	resp, err := c.parties.CreateParty(context.Background(), connect.NewRequest(&api.CreatePartyRequest{
		Name:         "Ski Trip",
		Currency:     "eur",
		Participants: names,
	}))
	require.NoError(t, err)

	ids := make(map[string]string, len(names))
	for _, p := range resp.Msg.Party.Participants {
		ids[p.Name] = p.ID
	}
	return resp.Msg.Party, ids
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}
