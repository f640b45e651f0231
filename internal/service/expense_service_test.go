package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
)

func owed(allocations []api.Allocation) []int64 {
	out := make([]int64, len(allocations))
	for i, a := range allocations {
		out[i] = a.Amount.Minor
	}
	return out
}

func TestPreviewSplit(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		req       *api.PreviewSplitRequest
		want      []int64
		wantError connect.Code
	}{
		{
			name: "evenly gives leftovers to the first borrowers",
			req: &api.PreviewSplitRequest{
				Amount:    "1.00",
				SplitMode: "evenly",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}, {ParticipantID: "b"}, {ParticipantID: "c"}},
			},
			want: []int64{34, 33, 33},
		},
		{
			name: "share uses largest remainder",
			req: &api.PreviewSplitRequest{
				Amount:    "1.00",
				SplitMode: "share",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a", Share: 1}, {ParticipantID: "b", Share: 2}},
			},
			want: []int64{33, 67},
		},
		{
			name: "percentage redistributes leftovers",
			req: &api.PreviewSplitRequest{
				Amount:    "9.99",
				SplitMode: "percentage",
				Borrowers: []api.BorrowerInput{
					{ParticipantID: "a", Percent: 33},
					{ParticipantID: "b", Percent: 33},
					{ParticipantID: "c", Percent: 34},
				},
			},
			want: []int64{330, 330, 339},
		},
		{
			name: "amount passes explicit amounts through",
			req: &api.PreviewSplitRequest{
				Amount:    "12.50",
				SplitMode: "amount",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a", Amount: "10"}, {ParticipantID: "b", Amount: "2.5"}},
			},
			want: []int64{1000, 250},
		},
		{
			name: "amounts not summing to total",
			req: &api.PreviewSplitRequest{
				Amount:    "12.50",
				SplitMode: "amount",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a", Amount: "10"}, {ParticipantID: "b", Amount: "2"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "percentages not summing to 100",
			req: &api.PreviewSplitRequest{
				Amount:    "10",
				SplitMode: "percentage",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a", Percent: 50}, {ParticipantID: "b", Percent: 40}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "all shares zero",
			req: &api.PreviewSplitRequest{
				Amount:    "10",
				SplitMode: "share",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}, {ParticipantID: "b"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split mode",
			req: &api.PreviewSplitRequest{
				Amount:    "10",
				SplitMode: "random",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "too many fractional digits",
			req: &api.PreviewSplitRequest{
				Amount:    "1.001",
				SplitMode: "evenly",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate borrower",
			req: &api.PreviewSplitRequest{
				Amount:    "10",
				SplitMode: "evenly",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}, {ParticipantID: "a"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name:      "no borrowers",
			req:       &api.PreviewSplitRequest{Amount: "10", SplitMode: "evenly"},
			wantError: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			req: &api.PreviewSplitRequest{
				Amount:    "0",
				SplitMode: "evenly",
				Borrowers: []api.BorrowerInput{{ParticipantID: "a"}},
			},
			wantError: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.expenses.PreviewSplit(ctx, connect.NewRequest(tt.req))
			if tt.wantError != 0 {
				requireCode(t, tt.wantError, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, owed(resp.Msg.Allocations))
			for i, a := range resp.Msg.Allocations {
				assert.Equal(t, tt.req.Borrowers[i].ParticipantID, a.ParticipantID, "allocation %d out of order", i)
			}
		})
	}
}

func TestCreateExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob", "Charlie")

	t.Run("allocates and persists", func(t *testing.T) {
		resp, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "  Dinner ",
			Amount:    "10",
			LenderID:  ids["Alice"],
			SplitMode: "share",
			Borrowers: []api.BorrowerInput{
				{ParticipantID: ids["Charlie"], Share: 2},
				{ParticipantID: ids["Alice"], Share: 1},
				{ParticipantID: ids["Bob"], Share: 1},
			},
		}))
		require.NoError(t, err)

		expense := resp.Msg.Expense
		assert.NotEmpty(t, expense.ID)
		assert.Equal(t, "Dinner", expense.Title)
		assert.Equal(t, api.Amount{Minor: 1000, Display: "10.00"}, expense.Amount)
		assert.Equal(t, "share", expense.SplitMode)
		require.Len(t, expense.Borrowers, 3)
		assert.Equal(t, ids["Charlie"], expense.Borrowers[0].ParticipantID)
		assert.Equal(t, api.Amount{Minor: 500, Display: "5.00"}, expense.Borrowers[0].Owed)
		assert.Equal(t, int64(2), expense.Borrowers[0].Share)
		assert.Nil(t, expense.Borrowers[0].ExplicitAmount)

		got, err := c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expense.ID}))
		require.NoError(t, err)
		assert.Equal(t, expense, got.Msg.Expense)
	})

	t.Run("amount split keeps explicit amounts", func(t *testing.T) {
		resp, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "Tickets",
			Amount:    "7.50",
			LenderID:  ids["Bob"],
			SplitMode: "amount",
			Borrowers: []api.BorrowerInput{
				{ParticipantID: ids["Alice"], Amount: "5"},
				{ParticipantID: ids["Charlie"], Amount: "2.50"},
			},
		}))
		require.NoError(t, err)
		require.NotNil(t, resp.Msg.Expense.Borrowers[1].ExplicitAmount)
		assert.Equal(t, "2.50", resp.Msg.Expense.Borrowers[1].ExplicitAmount.Display)
		assert.Equal(t, int64(250), resp.Msg.Expense.Borrowers[1].Owed.Minor)
	})

	t.Run("borrower outside the party", func(t *testing.T) {
		_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "Taxi",
			Amount:    "10",
			LenderID:  ids["Alice"],
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{{ParticipantID: "stranger"}},
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("lender outside the party", func(t *testing.T) {
		_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Title:     "Taxi",
			Amount:    "10",
			LenderID:  "stranger",
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{{ParticipantID: ids["Bob"]}},
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   party.ID,
			Amount:    "10",
			LenderID:  ids["Alice"],
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{{ParticipantID: ids["Bob"]}},
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("unknown party", func(t *testing.T) {
		_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
			PartyID:   "nonexistent-id",
			Title:     "Taxi",
			Amount:    "10",
			LenderID:  ids["Alice"],
			SplitMode: "evenly",
			Borrowers: []api.BorrowerInput{{ParticipantID: ids["Bob"]}},
		}))
		requireCode(t, connect.CodeNotFound, err)
	})
}

func TestUpdateDeleteListExpenses(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	party, ids := c.createParty(t, "Alice", "Bob")

	created, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		PartyID:   party.ID,
		Title:     "Groceries",
		Amount:    "20",
		LenderID:  ids["Alice"],
		SplitMode: "evenly",
		Borrowers: []api.BorrowerInput{{ParticipantID: ids["Alice"]}, {ParticipantID: ids["Bob"]}},
		Date:      1700000000,
	}))
	require.NoError(t, err)
	expenseID := created.Msg.Expense.ID

	updated, err := c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: expenseID,
		Title:     "Groceries and wine",
		Amount:    "30",
		LenderID:  ids["Bob"],
		SplitMode: "percentage",
		Borrowers: []api.BorrowerInput{
			{ParticipantID: ids["Alice"], Percent: 70},
			{ParticipantID: ids["Bob"], Percent: 30},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, expenseID, updated.Msg.Expense.ID)
	assert.Equal(t, int64(1700000000), updated.Msg.Expense.Date, "date is kept when omitted")
	assert.Equal(t, int64(2100), updated.Msg.Expense.Borrowers[0].Owed.Minor)
	assert.Equal(t, int64(900), updated.Msg.Expense.Borrowers[1].Owed.Minor)

	_, err = c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: expenseID,
		Title:     "Broken",
		Amount:    "30",
		LenderID:  ids["Bob"],
		SplitMode: "percentage",
		Borrowers: []api.BorrowerInput{{ParticipantID: ids["Alice"], Percent: 70}},
	}))
	requireCode(t, connect.CodeInvalidArgument, err)

	_, err = c.expenses.UpdateExpense(ctx, connect.NewRequest(&api.UpdateExpenseRequest{ExpenseID: "nonexistent-id"}))
	requireCode(t, connect.CodeNotFound, err)

	list, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{PartyID: party.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)
	assert.Equal(t, "Groceries and wine", list.Msg.Expenses[0].Title)

	_, err = c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{PartyID: "nonexistent-id"}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expenseID}))
	require.NoError(t, err)

	_, err = c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expenseID}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expenseID}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{}))
	requireCode(t, connect.CodeInvalidArgument, err)
}
