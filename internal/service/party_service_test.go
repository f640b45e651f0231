package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/metrics"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
)

func TestCreateParty(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("keeps participant order", func(t *testing.T) {
		party, _ := c.createParty(t, "Zoe", "Alice", "Mia")

		assert.NotEmpty(t, party.ID)
		assert.Equal(t, "EUR", party.Currency)
		require.Len(t, party.Participants, 3)
		assert.Equal(t, "Zoe", party.Participants[0].Name)
		assert.Equal(t, "Mia", party.Participants[2].Name)
	})

	t.Run("defaults currency", func(t *testing.T) {
		resp, err := c.parties.CreateParty(ctx, connect.NewRequest(&api.CreatePartyRequest{
			Name:         "Flat",
			Participants: []string{"Alice"},
		}))
		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, resp.Msg.Party.Currency)
	})

	invalid := []struct {
		name string
		req  *api.CreatePartyRequest
	}{
		{"missing name", &api.CreatePartyRequest{Name: " ", Participants: []string{"Alice"}}},
		{"no participants", &api.CreatePartyRequest{Name: "Flat"}},
		{"duplicate participants", &api.CreatePartyRequest{Name: "Flat", Participants: []string{"Alice", "Alice "}}},
		{"blank participant", &api.CreatePartyRequest{Name: "Flat", Participants: []string{""}}},
		{"bad currency", &api.CreatePartyRequest{Name: "Flat", Currency: "EURO", Participants: []string{"Alice"}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.parties.CreateParty(ctx, connect.NewRequest(tt.req))
			requireCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestGetUpdateDeleteParty(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob")

	got, err := c.parties.GetParty(ctx, connect.NewRequest(&api.GetPartyRequest{PartyID: party.ID}))
	require.NoError(t, err)
	assert.Equal(t, party, got.Msg.Party)

	_, err = c.parties.GetParty(ctx, connect.NewRequest(&api.GetPartyRequest{PartyID: "nonexistent-id"}))
	requireCode(t, connect.CodeNotFound, err)

	updated, err := c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{
		PartyID:         party.ID,
		Name:            "Beach Trip",
		AddParticipants: []string{"Charlie"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "Beach Trip", updated.Msg.Party.Name)
	assert.Equal(t, "EUR", updated.Msg.Party.Currency, "empty currency keeps the current one")
	require.Len(t, updated.Msg.Party.Participants, 3)
	assert.Equal(t, ids["Alice"], updated.Msg.Party.Participants[0].ID)
	assert.Equal(t, "Charlie", updated.Msg.Party.Participants[2].Name)

	_, err = c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{
		PartyID:         party.ID,
		AddParticipants: []string{"Bob"},
	}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{
		PartyID:  party.ID,
		Currency: "JPY",
	}))
	require.NoError(t, err, "precision may change while the party has no amounts")

	_, err = c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{PartyID: "nonexistent-id", Name: "x"}))
	requireCode(t, connect.CodeNotFound, err)

	list, err := c.parties.ListParties(ctx, connect.NewRequest(&api.ListPartiesRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Parties, 1)

	_, err = c.parties.DeleteParty(ctx, connect.NewRequest(&api.DeletePartyRequest{PartyID: party.ID}))
	require.NoError(t, err)

	_, err = c.parties.GetParty(ctx, connect.NewRequest(&api.GetPartyRequest{PartyID: party.ID}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = c.parties.DeleteParty(ctx, connect.NewRequest(&api.DeletePartyRequest{PartyID: party.ID}))
	requireCode(t, connect.CodeNotFound, err)
}

func TestGetBalances(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := setupTestServer(t, WithMetrics(metrics.New(reg)))
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob", "Charlie")
	everyone := []api.BorrowerInput{{ParticipantID: ids["Alice"]}, {ParticipantID: ids["Bob"]}, {ParticipantID: ids["Charlie"]}}

	balances := func(t *testing.T) *api.GetBalancesResponse {
		t.Helper()
		resp, err := c.parties.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{PartyID: party.ID}))
		require.NoError(t, err)
		return resp.Msg
	}

	t.Run("empty party", func(t *testing.T) {
		got := balances(t)
		require.Len(t, got.Balances, 3)
		for _, b := range got.Balances {
			assert.Zero(t, b.Net.Minor)
		}
		assert.Empty(t, got.Reimbursements)
	})

	for _, e := range []struct {
		lender string
		amount string
	}{{"Alice", "30"}, {"Bob", "15"}} {
		_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "Shared",
			Amount:    e.amount,
			LenderID:  ids[e.lender],
			SplitMode: "evenly",
			Borrowers: everyone,
		}))
		require.NoError(t, err)
	}

	t.Run("after expenses", func(t *testing.T) {
		got := balances(t)
		require.Len(t, got.Balances, 3)
		assert.Equal(t, "Alice", got.Balances[0].Name)
		assert.Equal(t, api.Amount{Minor: 3000, Display: "30.00"}, got.Balances[0].Lent)
		assert.Equal(t, int64(1500), got.Balances[0].Borrowed.Minor)
		assert.Equal(t, int64(1500), got.Balances[0].Net.Minor)
		assert.Equal(t, int64(0), got.Balances[1].Net.Minor)
		assert.Equal(t, api.Amount{Minor: -1500, Display: "-15.00"}, got.Balances[2].Net)

		require.Len(t, got.Reimbursements, 1)
		assert.Equal(t, api.Reimbursement{
			FromID:   ids["Charlie"],
			FromName: "Charlie",
			ToID:     ids["Alice"],
			ToName:   "Alice",
			Amount:   api.Amount{Minor: 1500, Display: "15.00"},
		}, got.Reimbursements[0])
	})

	t.Run("settled by a recorded settlement", func(t *testing.T) {
		resp, err := c.parties.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
			PartyID: party.ID,
			FromID:  ids["Charlie"],
			ToID:    ids["Alice"],
			Amount:  "15.00",
			Note:    "bank transfer",
		}))
		require.NoError(t, err)
		assert.Equal(t, "bank transfer", resp.Msg.Settlement.Note)

		got := balances(t)
		for _, b := range got.Balances {
			assert.Zero(t, b.Net.Minor, "participant %s", b.Name)
		}
		assert.Empty(t, got.Reimbursements)
	})

	t.Run("unknown party", func(t *testing.T) {
		_, err := c.parties.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{PartyID: "nonexistent-id"}))
		requireCode(t, connect.CodeNotFound, err)

		_, err = c.parties.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	count, err := testutil.GatherAndCount(reg, "isplitapp_settlement_plan_transfers")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetBalances_TruncatedPercentagesStayBalanced(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := setupTestServer(t,
		WithPercentRounding(calculator.RoundingTruncate),
		WithMetrics(metrics.New(reg)),
	)
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob", "Charlie")

	created, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		PartyID:   party.ID,
		Title:     "Hotel",
		Amount:    "10.01",
		LenderID:  ids["Alice"],
		SplitMode: "percentage",
		Borrowers: []api.BorrowerInput{
			{ParticipantID: ids["Alice"], Percent: 33},
			{ParticipantID: ids["Bob"], Percent: 33},
			{ParticipantID: ids["Charlie"], Percent: 34},
		},
	}))
	require.NoError(t, err)

	var allocated int64
	for _, b := range created.Msg.Expense.Borrowers {
		allocated += b.Owed.Minor
	}
	assert.Equal(t, int64(1000), allocated, "truncation drops one unit")

	expected := `
# HELP isplitapp_allocation_shortfall_units_total Minor units left unallocated by truncating percentage splits.
# TYPE isplitapp_allocation_shortfall_units_total counter
isplitapp_allocation_shortfall_units_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "isplitapp_allocation_shortfall_units_total"))

	resp, err := c.parties.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{PartyID: party.ID}))
	require.NoError(t, err)

	var net int64
	for _, b := range resp.Msg.Balances {
		net += b.Net.Minor
	}
	assert.Zero(t, net)
	assert.Equal(t, int64(670), resp.Msg.Balances[0].Net.Minor)

	require.Len(t, resp.Msg.Reimbursements, 2)
	assert.Equal(t, ids["Charlie"], resp.Msg.Reimbursements[0].FromID)
	assert.Equal(t, int64(340), resp.Msg.Reimbursements[0].Amount.Minor)
	assert.Equal(t, ids["Bob"], resp.Msg.Reimbursements[1].FromID)
	assert.Equal(t, int64(330), resp.Msg.Reimbursements[1].Amount.Minor)
}

func TestSettlements(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob")

	invalid := []struct {
		name string
		req  *api.RecordSettlementRequest
	}{
		{"same participant", &api.RecordSettlementRequest{PartyID: party.ID, FromID: ids["Alice"], ToID: ids["Alice"], Amount: "5"}},
		{"zero amount", &api.RecordSettlementRequest{PartyID: party.ID, FromID: ids["Bob"], ToID: ids["Alice"], Amount: "0"}},
		{"malformed amount", &api.RecordSettlementRequest{PartyID: party.ID, FromID: ids["Bob"], ToID: ids["Alice"], Amount: "five"}},
		{"outsider", &api.RecordSettlementRequest{PartyID: party.ID, FromID: "stranger", ToID: ids["Alice"], Amount: "5"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.parties.RecordSettlement(ctx, connect.NewRequest(tt.req))
			requireCode(t, connect.CodeInvalidArgument, err)
		})
	}

	_, err := c.parties.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		PartyID: "nonexistent-id", FromID: ids["Bob"], ToID: ids["Alice"], Amount: "5",
	}))
	requireCode(t, connect.CodeNotFound, err)

	recorded, err := c.parties.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		PartyID: party.ID, FromID: ids["Bob"], ToID: ids["Alice"], Amount: "12.5",
	}))
	require.NoError(t, err)
	assert.Equal(t, api.Amount{Minor: 1250, Display: "12.50"}, recorded.Msg.Settlement.Amount)

	list, err := c.parties.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{PartyID: party.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Settlements, 1)
	assert.Equal(t, recorded.Msg.Settlement, list.Msg.Settlements[0])

	_, err = c.parties.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{PartyID: "nonexistent-id"}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = c.parties.DeleteSettlement(ctx, connect.NewRequest(&api.DeleteSettlementRequest{SettlementID: recorded.Msg.Settlement.ID}))
	require.NoError(t, err)

	_, err = c.parties.DeleteSettlement(ctx, connect.NewRequest(&api.DeleteSettlementRequest{SettlementID: recorded.Msg.Settlement.ID}))
	requireCode(t, connect.CodeNotFound, err)
}

func TestCurrencyPrecision(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	resp, err := c.parties.CreateParty(ctx, connect.NewRequest(&api.CreatePartyRequest{
		Name:         "Tokyo",
		Currency:     "jpy",
		Participants: []string{"Alice", "Bob", "Charlie"},
	}))
	require.NoError(t, err)
	party := resp.Msg.Party
	ids := make(map[string]string)
	for _, p := range party.Participants {
		ids[p.Name] = p.ID
	}

	t.Run("expenses use whole yen", func(t *testing.T) {
		created, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "Ramen",
			Amount:    "1000",
			LenderID:  ids["Alice"],
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{
				{ParticipantID: ids["Alice"]},
				{ParticipantID: ids["Bob"]},
				{ParticipantID: ids["Charlie"]},
			},
		}))
		require.NoError(t, err)
		expense := created.Msg.Expense
		assert.Equal(t, api.Amount{Minor: 1000, Display: "1000"}, expense.Amount)
		assert.Equal(t, api.Amount{Minor: 334, Display: "334"}, expense.Borrowers[0].Owed)

		got, err := c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expense.ID}))
		require.NoError(t, err)
		assert.Equal(t, expense, got.Msg.Expense)
	})

	t.Run("fractional yen rejected", func(t *testing.T) {
		_, err := c.parties.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
			PartyID: party.ID,
			FromID:  ids["Bob"],
			ToID:    ids["Alice"],
			Amount:  "10.5",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("balances formatted in yen", func(t *testing.T) {
		balances, err := c.parties.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{PartyID: party.ID}))
		require.NoError(t, err)
		require.Len(t, balances.Msg.Balances, 3)
		assert.Equal(t, api.Amount{Minor: 666, Display: "666"}, balances.Msg.Balances[0].Net)
	})

	t.Run("precision change rejected once amounts exist", func(t *testing.T) {
		_, err := c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{
			PartyID:  party.ID,
			Currency: "EUR",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)

		_, err = c.parties.UpdateParty(ctx, connect.NewRequest(&api.UpdatePartyRequest{
			PartyID:  party.ID,
			Currency: "KRW",
		}))
		require.NoError(t, err, "same minor unit")
	})

	t.Run("preview uses request currency", func(t *testing.T) {
		preview, err := c.expenses.PreviewSplit(ctx, connect.NewRequest(&api.PreviewSplitRequest{
			Currency:  "KWD",
			Amount:    "1.001",
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{{ParticipantID: "a"}, {ParticipantID: "b"}},
		}))
		require.NoError(t, err)
		assert.Equal(t, api.Amount{Minor: 501, Display: "0.501"}, preview.Msg.Allocations[0].Amount)
	})
}
