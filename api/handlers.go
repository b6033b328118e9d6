package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"wheelhouse/models"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// wagerBody is one wager as it arrives on the wire. Only size is checked
// here; stake and selection rules belong to the spin service.
type wagerBody struct {
	Type    string `json:"type" validate:"max=32"`
	Stake   int64  `json:"stake"`
	Numbers []int  `json:"numbers" validate:"max=18"`
	Target  string `json:"target" validate:"max=32"`
}

type spinRequest struct {
	Wagers []wagerBody `json:"wagers" validate:"required,max=100,dive"`
}

type outcomeBody struct {
	Type        models.WagerType `json:"type"`
	Stake       int64            `json:"stake"`
	Numbers     []int            `json:"numbers,omitempty"`
	Target      string           `json:"target,omitempty"`
	PayoutRatio int64            `json:"payout_ratio"`
	Won         bool             `json:"won"`
	Payout      int64            `json:"payout"`
}

type spinResponse struct {
	SpinID      uuid.UUID     `json:"spin_id"`
	Pocket      int           `json:"pocket"`
	Color       models.Color  `json:"color"`
	Parity      models.Parity `json:"parity"`
	Dozen       int           `json:"dozen"`
	Column      int           `json:"column"`
	Outcomes    []outcomeBody `json:"outcomes"`
	TotalStaked int64         `json:"total_staked"`
	TotalPayout int64         `json:"total_payout"`
	Net         int64         `json:"net"`
	Balance     int64         `json:"balance"`
}

type balanceResponse struct {
	AccountID int64                 `json:"account_id"`
	Balance   int64                 `json:"balance"`
	Entries   []*models.LedgerEntry `json:"entries"`
}

type historyItem struct {
	SpinID       uuid.UUID     `json:"spin_id"`
	Pocket       int           `json:"pocket"`
	Color        models.Color  `json:"color"`
	Outcomes     []outcomeBody `json:"outcomes"`
	TotalStaked  int64         `json:"total_staked"`
	TotalPayout  int64         `json:"total_payout"`
	Net          int64         `json:"net"`
	BalanceAfter int64         `json:"balance_after"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]bool{"ok": true})
}

func (s *Server) handleTableInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, models.Layout())
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	const op = "api.handleSpin"
	logger := log.WithFields(log.Fields{
		"op":        op,
		"requestID": middleware.GetReqID(r.Context()),
	})

	var req spinRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.WithError(err).Debug("Failed to decode spin request")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error("failed to decode request", http.StatusBadRequest))
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		if errors.As(err, &validateErr) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ValidationError(validateErr))
			return
		}
		writeError(w, r, err)
		return
	}

	wagers := make([]models.WagerRequest, len(req.Wagers))
	for i, b := range req.Wagers {
		wagers[i] = models.WagerRequest{
			Type:    models.WagerType(b.Type),
			Stake:   b.Stake,
			Numbers: b.Numbers,
			Target:  b.Target,
		}
	}

	outcome, err := s.spins.PlaySpin(r.Context(), accountIDFrom(r.Context()), wagers)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, spinResponse{
		SpinID:      outcome.SpinID,
		Pocket:      outcome.Result.Pocket,
		Color:       outcome.Result.Color,
		Parity:      outcome.Result.Parity,
		Dozen:       outcome.Result.Dozen,
		Column:      outcome.Result.Column,
		Outcomes:    outcomeBodies(outcome.Outcomes),
		TotalStaked: outcome.TotalStaked,
		TotalPayout: outcome.TotalPayout,
		Net:         outcome.Net,
		Balance:     outcome.Balance,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFrom(r.Context())

	balance, err := s.accounts.GetBalance(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := s.accounts.GetLedger(r.Context(), accountID, queryLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, balanceResponse{AccountID: accountID, Balance: balance, Entries: entries})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	spins, err := s.spins.GetHistory(r.Context(), accountIDFrom(r.Context()), queryLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]historyItem, 0, len(spins))
	for _, sp := range spins {
		items = append(items, historyItem{
			SpinID:       sp.ID,
			Pocket:       sp.Pocket,
			Color:        sp.Color,
			Outcomes:     outcomeBodies(sp.Outcomes),
			TotalStaked:  sp.TotalStaked,
			TotalPayout:  sp.TotalPayout,
			Net:          sp.Net,
			BalanceAfter: sp.BalanceAfter,
			CreatedAt:    sp.CreatedAt,
		})
	}
	render.JSON(w, r, items)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.stats.GetLeaderboard(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, entries)
}

func (s *Server) handleStatsMe(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetAccountStats(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func outcomeBodies(outcomes []models.WagerOutcome) []outcomeBody {
	bodies := make([]outcomeBody, len(outcomes))
	for i, o := range outcomes {
		bodies[i] = outcomeBody{
			Type:        o.Wager.Type,
			Stake:       o.Wager.Stake,
			Numbers:     o.Wager.Pockets,
			Target:      o.Wager.Target,
			PayoutRatio: o.Wager.PayoutRatio,
			Won:         o.Won,
			Payout:      o.Payout,
		}
	}
	return bodies
}

// queryLimit reads ?limit=, returning 0 (service default) when absent or malformed
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
