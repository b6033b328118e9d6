package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wheelhouse/config"
	"wheelhouse/events"
	"wheelhouse/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type spinService struct {
	uowFactory UnitOfWorkFactory
	wheel      *Wheel
	config     *config.Config
	now        func() time.Time
}

// NewSpinService creates a new spin service
func NewSpinService(uowFactory UnitOfWorkFactory, wheel *Wheel, cfg *config.Config) SpinService {
	return &spinService{
		uowFactory: uowFactory,
		wheel:      wheel,
		config:     cfg,
		now:        time.Now,
	}
}

const applySavepoint = "spin_apply"

func (s *spinService) PlaySpin(ctx context.Context, accountID int64, requests []models.WagerRequest) (*models.SpinOutcome, error) {
	logger := log.WithField("account", accountID)

	wagers, totalStake, err := s.prepareWagers(requests)
	if err != nil {
		logger.WithError(err).Debug("Spin rejected")
		return nil, err
	}

	// Early check against a snapshot; repeated under the account lock below
	balance, err := s.balanceSnapshot(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if totalStake > balance {
		return nil, reject(ErrInsufficientFunds, -1, "insufficient balance: have %d, need %d", balance, totalStake)
	}

	// Past this point the request runs to completion even if the caller goes away
	applyCtx := context.WithoutCancel(ctx)

	// Only attempts that fail before the draw are retried here. Once the
	// pocket is drawn, settle keeps the account lock until the spin is applied.
	for attempt := 1; ; attempt++ {
		outcome, err := s.settle(applyCtx, accountID, wagers, totalStake)
		if err == nil {
			logger.WithFields(log.Fields{
				"spin":   outcome.SpinID,
				"pocket": outcome.Result.Pocket,
				"staked": outcome.TotalStaked,
				"net":    outcome.Net,
			}).Info("Spin settled")
			return outcome, nil
		}

		switch {
		case errors.Is(err, ErrServiceBusy):
			return nil, err
		case errors.Is(err, ErrConcurrencyConflict):
			if attempt >= s.config.SettleMaxRetries {
				logger.WithError(err).Error("Account lock conflict retries exhausted")
				return nil, fmt.Errorf("%w: %v", ErrServiceBusy, err)
			}
			logger.WithField("attempt", attempt).Warn("Account lock conflict, retrying spin")
		case errors.Is(err, ErrEntropyFailure):
			logger.WithError(err).Error("Wheel draw failed, spin aborted")
			return nil, err
		case IsRejection(err):
			logger.WithError(err).Debug("Spin rejected")
			return nil, err
		default:
			return nil, err
		}
	}
}

// settle locks the account, re-checks funds and the daily limit, draws once
// and applies the result in the same transaction. Errors before the draw are
// returned as is; any failure after it is ErrServiceBusy.
func (s *spinService) settle(ctx context.Context, accountID int64, wagers []models.Wager, totalStake int64) (*models.SpinOutcome, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().LockForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	balance, err := uow.LedgerRepository().GetBalance(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if totalStake > balance {
		return nil, reject(ErrInsufficientFunds, -1, "insufficient balance: have %d, need %d", balance, totalStake)
	}
	if balance > math.MaxInt64-maxWin(wagers) {
		return nil, reject(ErrValidation, -1, "balance too large to cover a win on this spin")
	}
	if err := s.checkDailyLimit(ctx, uow, accountID, totalStake); err != nil {
		return nil, err
	}

	result, err := s.wheel.Spin()
	if err != nil {
		return nil, err
	}
	spinID := uuid.New()
	st := Settle(wagers, result)

	newBalance, err := s.applyDrawn(ctx, uow, accountID, spinID, result, st, len(wagers))
	if err == nil {
		err = uow.Commit()
	}
	if err != nil {
		log.WithFields(log.Fields{
			"account": accountID,
			"spin":    spinID,
			"pocket":  result.Pocket,
			"net":     st.Net,
		}).WithError(err).Error("Drawn spin could not be applied and was discarded")
		return nil, fmt.Errorf("%w: %v", ErrServiceBusy, err)
	}

	return &models.SpinOutcome{
		SpinID:     spinID,
		Result:     result,
		Settlement: st,
		Balance:    newBalance,
	}, nil
}

// applyDrawn writes the ledger entry, spin record and event for a drawn spin.
// A conflict rolls back to a savepoint and tries again under the lock already
// held, so the funds check made before the draw stays valid.
func (s *spinService) applyDrawn(ctx context.Context, uow UnitOfWork, accountID int64, spinID uuid.UUID, result models.SpinResult, st models.Settlement, wagerCount int) (int64, error) {
	for attempt := 1; ; attempt++ {
		if err := uow.Savepoint(ctx, applySavepoint); err != nil {
			return 0, err
		}

		newBalance, err := s.apply(ctx, uow, accountID, spinID, result, st, wagerCount)
		if err == nil {
			return newBalance, nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) || attempt >= s.config.SettleMaxRetries {
			return 0, err
		}

		log.WithFields(log.Fields{
			"spin":    spinID,
			"attempt": attempt,
		}).Warn("Ledger conflict, retrying spin apply")
		if err := uow.RollbackToSavepoint(ctx, applySavepoint); err != nil {
			return 0, err
		}
	}
}

func (s *spinService) apply(ctx context.Context, uow UnitOfWork, accountID int64, spinID uuid.UUID, result models.SpinResult, st models.Settlement, wagerCount int) (int64, error) {
	newBalance, err := ApplyNet(ctx, uow, accountID, st.Net, spinID, map[string]any{
		"pocket":       result.Pocket,
		"wagers":       wagerCount,
		"total_staked": st.TotalStaked,
		"total_payout": st.TotalPayout,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to apply spin result: %w", err)
	}

	record := &models.SpinRecord{
		ID:           spinID,
		AccountID:    accountID,
		Pocket:       result.Pocket,
		Color:        result.Color,
		Outcomes:     st.Outcomes,
		TotalStaked:  st.TotalStaked,
		TotalPayout:  st.TotalPayout,
		Net:          st.Net,
		BalanceAfter: newBalance,
	}
	if err := uow.SpinRepository().Create(ctx, record); err != nil {
		return 0, fmt.Errorf("failed to record spin: %w", err)
	}

	uow.EventBus().Publish(events.SpinSettledEvent{
		SpinID:       spinID.String(),
		AccountID:    accountID,
		Pocket:       result.Pocket,
		Color:        result.Color,
		Outcomes:     st.Outcomes,
		TotalStaked:  st.TotalStaked,
		TotalPayout:  st.TotalPayout,
		Net:          st.Net,
		BalanceAfter: newBalance,
	})
	return newBalance, nil
}

// prepareWagers validates the request list and classifies every wager
// server-side. A declared type that disagrees with the selection is refused.
func (s *spinService) prepareWagers(requests []models.WagerRequest) ([]models.Wager, int64, error) {
	if len(requests) == 0 {
		return nil, 0, reject(ErrValidation, -1, "no wagers placed")
	}
	if limit := s.config.MaxWagersPerSpin; limit > 0 && len(requests) > limit {
		return nil, 0, reject(ErrValidation, -1, "at most %d wagers per spin", limit)
	}

	wagers := make([]models.Wager, 0, len(requests))
	var total int64
	for i, req := range requests {
		if req.Stake <= 0 {
			return nil, 0, reject(ErrValidation, i, "stake must be positive")
		}
		if limit := s.config.MaxStakePerWager; limit > 0 && req.Stake > limit {
			return nil, 0, reject(ErrValidation, i, "stake exceeds the table maximum of %d", limit)
		}
		if req.Stake > MaxStake {
			return nil, 0, reject(ErrValidation, i, "stake exceeds %d", MaxStake)
		}
		if total+req.Stake > MaxStake {
			return nil, 0, reject(ErrValidation, i, "total stake is too large")
		}

		cls, err := Classify(req)
		if err != nil {
			return nil, 0, atWager(err, i)
		}
		if err := CheckDeclaredType(req.Type, cls); err != nil {
			return nil, 0, atWager(err, i)
		}

		wagers = append(wagers, models.Wager{
			Type:        cls.Type,
			Stake:       req.Stake,
			Pockets:     cls.Pockets,
			Target:      cls.Target,
			PayoutRatio: cls.PayoutRatio,
		})
		total += req.Stake
	}
	return wagers, total, nil
}

func (s *spinService) balanceSnapshot(ctx context.Context, accountID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, ErrAccountNotFound
	}
	return uow.LedgerRepository().GetBalance(ctx, accountID)
}

func (s *spinService) checkDailyLimit(ctx context.Context, uow UnitOfWork, accountID int64, totalStake int64) error {
	limit := s.config.DailyStakeLimit
	if limit <= 0 {
		return nil
	}

	now := s.now()
	since := periodStart(now, s.config.DailyLimitResetHour)
	staked, err := uow.SpinRepository().GetStakedSince(ctx, accountID, since)
	if err != nil {
		return fmt.Errorf("failed to check daily stake: %w", err)
	}

	if staked+totalStake > limit {
		remaining := limit - staked
		if remaining <= 0 {
			return reject(ErrDailyLimit, -1, "daily stake limit of %d reached, resets at %s",
				limit, nextReset(now, s.config.DailyLimitResetHour).Format("15:04 MST"))
		}
		return reject(ErrDailyLimit, -1, "spin would exceed the daily stake limit, %d remaining today", remaining)
	}
	return nil
}

func (s *spinService) GetHistory(ctx context.Context, accountID int64, limit int) ([]*models.SpinRecord, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	spins, err := uow.SpinRepository().GetByAccount(ctx, accountID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get spin history: %w", err)
	}
	return spins, nil
}

// atWager attaches a wager position to a rejection
func atWager(err error, index int) error {
	var rej *RejectionError
	if errors.As(err, &rej) {
		rej.WagerIndex = index
	}
	return err
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
