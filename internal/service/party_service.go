package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/yet-an-other/isplitapp-sub000/internal/calculator"
	"github.com/yet-an-other/isplitapp-sub000/internal/models"
	"github.com/yet-an-other/isplitapp-sub000/internal/storage"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
	"github.com/yet-an-other/isplitapp-sub000/pkg/api/apiconnect"
)

// DefaultCurrency is used when a party is created without a currency.
const DefaultCurrency = "USD"

// PartyService implements the Connect PartyService
type PartyService struct {
	store storage.Store
	options
}

var _ apiconnect.PartyServiceHandler = (*PartyService)(nil)

// NewPartyService creates a new PartyService with the given storage backend.
func NewPartyService(store storage.Store, opts ...Option) *PartyService {
	return &PartyService{store: store, options: newOptions(opts)}
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if len(code) != 3 || strings.Trim(code, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return "", fmt.Errorf("%w: currency %q is not a three-letter code", ErrInvalidArgument, code)
	}
	return code, nil
}

func newParticipants(names []string) []models.Participant {
	participants := make([]models.Participant, len(names))
	for i, name := range names {
		participants[i] = models.Participant{Name: strings.TrimSpace(name)}
	}
	return participants
}

// CreateParty creates a new party with its participants.
func (s *PartyService) CreateParty(ctx context.Context, req *connect.Request[api.CreatePartyRequest]) (*connect.Response[api.CreatePartyResponse], error) {
	slog.Info("CreateParty request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError(fmt.Errorf("%w: name is required", ErrInvalidArgument))
	}
	if len(req.Msg.Participants) == 0 {
		return nil, connectError(fmt.Errorf("%w: at least one participant is required", ErrInvalidArgument))
	}
	if err := validateParticipantNames(nil, req.Msg.Participants); err != nil {
		return nil, connectError(err)
	}
	currency, err := normalizeCurrency(req.Msg.Currency)
	if err != nil {
		return nil, connectError(err)
	}

	party := &models.Party{
		Name:         name,
		Currency:     currency,
		Participants: newParticipants(req.Msg.Participants),
	}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateParty(ctx, party); err != nil {
		slog.Error("CreateParty failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Party created", "party_id", party.ID)

	return connect.NewResponse(&api.CreatePartyResponse{Party: toAPIParty(party)}), nil
}

// GetParty retrieves a party by ID.
func (s *PartyService) GetParty(ctx context.Context, req *connect.Request[api.GetPartyRequest]) (*connect.Response[api.GetPartyResponse], error) {
	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("GetParty failed", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetPartyResponse{Party: toAPIParty(party)}), nil
}

// ListParties retrieves all parties.
func (s *PartyService) ListParties(ctx context.Context, req *connect.Request[api.ListPartiesRequest]) (*connect.Response[api.ListPartiesResponse], error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		slog.Error("ListParties failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Party, len(parties))
	for i, party := range parties {
		out[i] = toAPIParty(party)
	}

	slog.Debug("ListParties successful", "count", len(parties))

	return connect.NewResponse(&api.ListPartiesResponse{Parties: out}), nil
}

// UpdateParty renames a party, changes its currency and adds participants.
// Empty fields keep their current value.
func (s *PartyService) UpdateParty(ctx context.Context, req *connect.Request[api.UpdatePartyRequest]) (*connect.Response[api.UpdatePartyResponse], error) {
	slog.Info("UpdateParty request received",
		"party_id", req.Msg.PartyID,
		"add_participants_count", len(req.Msg.AddParticipants),
	)

	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("UpdateParty: failed to get party", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	if name := strings.TrimSpace(req.Msg.Name); name != "" {
		party.Name = name
	}
	if req.Msg.Currency != "" {
		currency, err := normalizeCurrency(req.Msg.Currency)
		if err != nil {
			return nil, connectError(err)
		}
		if err := s.checkPrecisionChange(ctx, party, currency); err != nil {
			return nil, connectError(err)
		}
		party.Currency = currency
	}
	if err := validateParticipantNames(party.Participants, req.Msg.AddParticipants); err != nil {
		return nil, connectError(err)
	}

	if err := s.store.UpdateParty(ctx, party, newParticipants(req.Msg.AddParticipants)); err != nil {
		slog.Error("UpdateParty failed", "party_id", party.ID, "error", err)
		return nil, connectError(err)
	}

	// Fetch updated party to get the new participant IDs
	updated, err := s.store.GetParty(ctx, party.ID)
	if err != nil {
		slog.Error("Failed to fetch updated party", "party_id", party.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Party updated", "party_id", party.ID)

	return connect.NewResponse(&api.UpdatePartyResponse{Party: toAPIParty(updated)}), nil
}

// checkPrecisionChange rejects a currency whose minor unit differs from the
// current one once the party has recorded amounts, since stored minor units
// would change value.
func (s *PartyService) checkPrecisionChange(ctx context.Context, party *models.Party, currency string) error {
	from := s.forCurrency(party.Currency).decimals
	to := s.forCurrency(currency).decimals
	if from == to {
		return nil
	}
	expenses, err := s.store.ListExpensesByParty(ctx, party.ID)
	if err != nil {
		return err
	}
	settlements, err := s.store.ListSettlementsByParty(ctx, party.ID)
	if err != nil {
		return err
	}
	if len(expenses) > 0 || len(settlements) > 0 {
		return fmt.Errorf("%w: currency %s uses %d decimals but party amounts are recorded with %d",
			ErrInvalidArgument, currency, to, from)
	}
	return nil
}

// DeleteParty removes a party with its expenses and settlements.
func (s *PartyService) DeleteParty(ctx context.Context, req *connect.Request[api.DeletePartyRequest]) (*connect.Response[api.DeletePartyResponse], error) {
	slog.Info("DeleteParty request received", "party_id", req.Msg.PartyID)

	if err := s.store.DeleteParty(ctx, req.Msg.PartyID); err != nil {
		slog.Error("DeleteParty failed", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Party deleted", "party_id", req.Msg.PartyID)

	return connect.NewResponse(&api.DeletePartyResponse{}), nil
}

// GetBalances calculates member balances across all expenses and settlements
// of a party and plans the transfers that settle them.
func (s *PartyService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	partyID := req.Msg.PartyID
	slog.Info("GetBalances request received", "party_id", partyID)

	if partyID == "" {
		return nil, connectError(fmt.Errorf("%w: party_id required", ErrInvalidArgument))
	}

	party, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		slog.Error("GetBalances failed - party not found", "party_id", partyID, "error", err)
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpensesByParty(ctx, partyID)
	if err != nil {
		slog.Error("GetBalances failed - could not list expenses", "party_id", partyID, "error", err)
		return nil, connectError(err)
	}
	settlements, err := s.store.ListSettlementsByParty(ctx, partyID)
	if err != nil {
		slog.Error("GetBalances failed - could not list settlements", "party_id", partyID, "error", err)
		return nil, connectError(err)
	}

	calcExpenses := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		calcExpenses[i] = calculator.ExpenseForBalance{LenderID: e.LenderID, Allocations: e.Allocations()}
	}
	calcSettlements := make([]calculator.SettlementForBalance, len(settlements))
	for i, st := range settlements {
		calcSettlements[i] = calculator.SettlementForBalance{FromID: st.FromID, ToID: st.ToID, Amount: st.Amount}
	}

	balances := calculator.CalculatePartyBalances(party.ParticipantIDs(), calcExpenses, calcSettlements)
	transfers, err := calculator.Plan(calculator.BalanceEntries(balances))
	if err != nil {
		if errors.Is(err, calculator.ErrUnbalanced) {
			s.metrics.IncUnbalanced()
		}
		slog.Error("GetBalances failed - calculation error", "party_id", partyID, "error", err)
		return nil, connectError(err)
	}
	s.metrics.ObservePlan(len(transfers))

	o := s.forCurrency(party.Currency)
	names := make(map[string]string, len(party.Participants))
	for _, p := range party.Participants {
		names[p.ID] = p.Name
	}

	apiBalances := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		apiBalances[i] = api.MemberBalance{
			ParticipantID: b.ParticipantID,
			Name:          names[b.ParticipantID],
			Lent:          o.amount(b.Lent),
			Borrowed:      o.amount(b.Borrowed),
			Net:           o.amount(b.Net),
		}
	}

	reimbursements := make([]api.Reimbursement, len(transfers))
	for i, t := range transfers {
		reimbursements[i] = api.Reimbursement{
			FromID:   t.FromID,
			FromName: names[t.FromID],
			ToID:     t.ToID,
			ToName:   names[t.ToID],
			Amount:   o.amount(t.Amount),
		}
	}

	slog.Info("GetBalances successful",
		"party_id", partyID,
		"expenses_count", len(expenses),
		"settlements_count", len(settlements),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:       apiBalances,
		Reimbursements: reimbursements,
	}), nil
}

// RecordSettlement records a payment from one participant to another.
func (s *PartyService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"party_id", req.Msg.PartyID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
	)

	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("RecordSettlement: failed to get party", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	o := s.forCurrency(party.Currency)
	amount, err := o.parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}

	var errs []error
	if amount <= 0 {
		errs = append(errs, fmt.Errorf("amount must be positive, got %d", amount))
	}
	if !party.HasParticipant(req.Msg.FromID) {
		errs = append(errs, fmt.Errorf("from %q is not a participant of party %s", req.Msg.FromID, party.ID))
	}
	if !party.HasParticipant(req.Msg.ToID) {
		errs = append(errs, fmt.Errorf("to %q is not a participant of party %s", req.Msg.ToID, party.ID))
	}
	if req.Msg.FromID == req.Msg.ToID {
		errs = append(errs, errors.New("from and to must be different participants"))
	}
	if err := joinInvalid(errs); err != nil {
		return nil, connectError(err)
	}

	settlement := &models.Settlement{
		PartyID: party.ID,
		FromID:  req.Msg.FromID,
		ToID:    req.Msg.ToID,
		Amount:  amount,
		Note:    strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "party_id", party.ID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "party_id", party.ID)

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: o.toAPISettlement(settlement)}), nil
}

// ListSettlements retrieves all settlements of a party, newest first.
func (s *PartyService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	party, err := s.store.GetParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("ListSettlements: failed to get party", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}
	o := s.forCurrency(party.Currency)

	settlements, err := s.store.ListSettlementsByParty(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("ListSettlements failed", "party_id", req.Msg.PartyID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, settlement := range settlements {
		out[i] = o.toAPISettlement(settlement)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a recorded settlement.
func (s *PartyService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	if err := s.store.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Settlement deleted", "settlement_id", req.Msg.SettlementID)

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
