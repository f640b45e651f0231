package api

// Amount is a money value in both minor units and display units.
type Amount struct {
	Minor   int64  `json:"minor"`
	Display string `json:"display"`
}

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Party struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Participants []Participant `json:"participants"`
	CreatedAt    int64         `json:"created_at"`
}

// BorrowerInput is one borrower as sent by clients. Only the field of the
// expense's split mode is read: Share for "share", Percent for "percentage",
// Amount for "amount".
type BorrowerInput struct {
	ParticipantID string `json:"participant_id"`
	Share         int64  `json:"share,omitempty"`
	Percent       int64  `json:"percent,omitempty"`
	Amount        string `json:"amount,omitempty"`
}

// Borrower is one borrower of a stored expense with the amount it owes.
type Borrower struct {
	ParticipantID  string  `json:"participant_id"`
	Share          int64   `json:"share,omitempty"`
	Percent        int64   `json:"percent,omitempty"`
	ExplicitAmount *Amount `json:"explicit_amount,omitempty"`
	Owed           Amount  `json:"owed"`
}

type Expense struct {
	ID        string     `json:"id"`
	PartyID   string     `json:"party_id"`
	Title     string     `json:"title"`
	Amount    Amount     `json:"amount"`
	LenderID  string     `json:"lender_id"`
	SplitMode string     `json:"split_mode"`
	Borrowers []Borrower `json:"borrowers"`
	Date      int64      `json:"date"`
	CreatedAt int64      `json:"created_at"`
	UpdatedAt int64      `json:"updated_at"`
}

type Allocation struct {
	ParticipantID string `json:"participant_id"`
	Amount        Amount `json:"amount"`
}

type MemberBalance struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Lent          Amount `json:"lent"`
	Borrowed      Amount `json:"borrowed"`
	Net           Amount `json:"net"`
}

// Reimbursement is a suggested transfer that moves the party toward settled.
type Reimbursement struct {
	FromID   string `json:"from_id"`
	FromName string `json:"from_name"`
	ToID     string `json:"to_id"`
	ToName   string `json:"to_name"`
	Amount   Amount `json:"amount"`
}

type Settlement struct {
	ID        string `json:"id"`
	PartyID   string `json:"party_id"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Amount    Amount `json:"amount"`
	Note      string `json:"note,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// ExpenseService messages.

type PreviewSplitRequest struct {
	// Currency selects the precision of amounts. Empty uses the server default.
	Currency  string          `json:"currency,omitempty"`
	Amount    string          `json:"amount"`
	SplitMode string          `json:"split_mode"`
	Borrowers []BorrowerInput `json:"borrowers"`
}

type PreviewSplitResponse struct {
	Allocations []Allocation `json:"allocations"`
}

type CreateExpenseRequest struct {
	PartyID   string          `json:"party_id"`
	Title     string          `json:"title"`
	Amount    string          `json:"amount"`
	LenderID  string          `json:"lender_id"`
	SplitMode string          `json:"split_mode"`
	Borrowers []BorrowerInput `json:"borrowers"`
	Date      int64           `json:"date,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID string          `json:"expense_id"`
	Title     string          `json:"title"`
	Amount    string          `json:"amount"`
	LenderID  string          `json:"lender_id"`
	SplitMode string          `json:"split_mode"`
	Borrowers []BorrowerInput `json:"borrowers"`
	Date      int64           `json:"date,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	PartyID string `json:"party_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// PartyService messages.

type CreatePartyRequest struct {
	Name         string   `json:"name"`
	Currency     string   `json:"currency"`
	Participants []string `json:"participants"`
}

type CreatePartyResponse struct {
	Party *Party `json:"party"`
}

type GetPartyRequest struct {
	PartyID string `json:"party_id"`
}

type GetPartyResponse struct {
	Party *Party `json:"party"`
}

type ListPartiesRequest struct{}

type ListPartiesResponse struct {
	Parties []*Party `json:"parties"`
}

// UpdatePartyRequest renames a party and adds participants. Existing
// participants are never removed because expenses reference them.
type UpdatePartyRequest struct {
	PartyID         string   `json:"party_id"`
	Name            string   `json:"name"`
	Currency        string   `json:"currency"`
	AddParticipants []string `json:"add_participants,omitempty"`
}

type UpdatePartyResponse struct {
	Party *Party `json:"party"`
}

type DeletePartyRequest struct {
	PartyID string `json:"party_id"`
}

type DeletePartyResponse struct{}

type GetBalancesRequest struct {
	PartyID string `json:"party_id"`
}

type GetBalancesResponse struct {
	Balances       []MemberBalance `json:"balances"`
	Reimbursements []Reimbursement `json:"reimbursements"`
}

type RecordSettlementRequest struct {
	PartyID string `json:"party_id"`
	FromID  string `json:"from_id"`
	ToID    string `json:"to_id"`
	Amount  string `json:"amount"`
	Note    string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	PartyID string `json:"party_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}
