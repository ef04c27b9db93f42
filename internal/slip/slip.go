// Package slip holds the bet slip state machine: the set of legs a user has
// assembled, the add/remove validation rules, derived parlay pricing, and
// orchestration of wager submission to an external collaborator.
package slip

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oddslip/oddslip/internal/domain"
	"github.com/oddslip/oddslip/internal/odds"
)

// Submitter is the external wager-acceptance collaborator. Implementations
// own their transport, authentication, and timeouts.
type Submitter interface {
	SubmitWager(ctx context.Context, legs []domain.LegForSubmission, amount decimal.Decimal) (domain.SubmitResult, error)
}

// Config holds slip validation and lifecycle parameters.
type Config struct {
	MaxLegs        int
	MinStartBuffer time.Duration   // games starting inside this window are not bettable
	MaxWager       decimal.Decimal // inclusive upper clamp for SetWager
	DefaultWager   decimal.Decimal
	ClearDelay     time.Duration // delay before clearing after an accepted wager
}

// DefaultConfig returns the production slip parameters.
func DefaultConfig() Config {
	return Config{
		MaxLegs:        10,
		MinStartBuffer: 10 * time.Minute,
		MaxWager:       decimal.NewFromInt(10000),
		DefaultWager:   decimal.NewFromInt(10),
		ClearDelay:     3 * time.Second,
	}
}

// Slip is one user session's bet slip. Instances are independent and
// single-owner; the mutex guards against the submission goroutine racing
// concurrent slip operations.
type Slip struct {
	mu         sync.Mutex
	legs       []domain.Leg
	wager      decimal.Decimal
	submitting bool
	expanded   bool
	gen        uint64 // bumped on every mutation; guards the deferred clear

	submitter Submitter
	cfg       Config
	now       func() time.Time
	logger    *slog.Logger
}

// New creates an empty Slip.
func New(submitter Submitter, cfg Config, logger *slog.Logger) *Slip {
	return &Slip{
		wager:     cfg.DefaultWager,
		submitter: submitter,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "slip")),
	}
}

// AddLeg validates and appends a leg. On rejection the slip is left
// unchanged and a sentinel error is returned; nothing is ever thrown.
func (s *Slip) AddLeg(leg domain.Leg) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !leg.GameStart.After(s.now().Add(s.cfg.MinStartBuffer)) {
		return domain.ErrGameStarted
	}

	sel := leg.Market.SelectionKey()
	for _, l := range s.legs {
		if l.GameID != leg.GameID {
			continue
		}
		if l.Market.SelectionKey() == sel && l.Selection == leg.Selection {
			return domain.ErrDuplicateLeg
		}
		return domain.ErrDuplicateGame // no same-event combinations
	}

	if len(s.legs) >= s.cfg.MaxLegs {
		return domain.ErrSlipFull
	}

	if leg.ID == "" {
		leg.ID = uuid.NewString()
	}
	s.legs = append(s.legs, leg)
	s.expanded = true
	s.gen++
	return nil
}

// RemoveLeg removes a leg by its ID. Removing the last leg returns the slip
// to the empty state.
func (s *Slip) RemoveLeg(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.legs {
		if l.ID == id {
			s.legs = append(s.legs[:i], s.legs[i+1:]...)
			if len(s.legs) == 0 {
				s.expanded = false
			}
			s.gen++
			return nil
		}
	}
	return domain.ErrNotFound
}

// Clear resets the slip to empty and restores the default wager.
func (s *Slip) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Slip) clearLocked() {
	s.legs = nil
	s.wager = s.cfg.DefaultWager
	s.expanded = false
	s.gen++
}

// clearIfUnchanged clears the slip only if no mutation happened since gen was
// captured, so the deferred post-submission clear never wipes legs the user
// added during the confirmation window.
func (s *Slip) clearIfUnchanged(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.clearLocked()
}

// SetWager clamps amount to [0, MaxWager] at two decimal places. Legs are
// unaffected.
func (s *Slip) SetWager(amount decimal.Decimal) {
	amount = amount.Round(2)
	if amount.Sign() < 0 {
		amount = decimal.Zero
	}
	if amount.GreaterThan(s.cfg.MaxWager) {
		amount = s.cfg.MaxWager
	}

	s.mu.Lock()
	s.wager = amount
	s.gen++
	s.mu.Unlock()
}

// View returns the display state, recomputing the combined price and payout
// from the current legs and wager.
func (s *Slip) View() domain.SlipView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Slip) viewLocked() domain.SlipView {
	legs := make([]domain.Leg, len(s.legs))
	copy(legs, s.legs)

	prices := make([]int, len(legs))
	for i, l := range legs {
		prices[i] = l.Price
	}

	view := domain.SlipView{
		Legs:       legs,
		Wager:      s.wager,
		Submitting: s.submitting,
		Expanded:   s.expanded,
	}
	if combined, ok := odds.CombineLegs(prices); ok {
		view.CombinedPrice = &combined
	}
	view.Payout, view.Profit = odds.Payout(s.wager, prices)
	return view
}

// Submit sends the current legs and wager to the submission collaborator.
// While a submission is in flight, further Submit calls are no-ops. On
// success the slip schedules a delayed clear so the caller can show a
// confirmation; on failure the legs are retained for retry. The submitting
// flag always resets, whatever the outcome.
//
// An in-flight submission is not cancelled if the caller goes away; the
// context only bounds the collaborator call itself.
func (s *Slip) Submit(ctx context.Context) domain.SubmitResult {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return domain.SubmitResult{
			Success: false,
			Message: "a submission is already in progress",
			Error:   domain.ErrSubmitInFlight.Error(),
		}
	}
	if len(s.legs) == 0 {
		s.mu.Unlock()
		return domain.SubmitResult{
			Success: false,
			Message: "add a selection before submitting",
			Error:   domain.ErrSlipEmpty.Error(),
		}
	}

	legs := make([]domain.LegForSubmission, len(s.legs))
	for i, l := range s.legs {
		legs[i] = l.ForSubmission()
	}
	amount := s.wager
	snapGen := s.gen
	s.submitting = true
	s.mu.Unlock()

	res, err := s.submitter.SubmitWager(ctx, legs, amount)

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "slip: submission failed",
			slog.Int("legs", len(legs)),
			slog.String("error", err.Error()),
		)
		msg := res.Message
		if msg == "" {
			msg = "wager could not be placed, your selections are saved"
		}
		return domain.SubmitResult{Success: false, Message: msg, Error: err.Error()}
	}

	if res.Success {
		if res.Message == "" {
			res.Message = "wager placed"
		}
		time.AfterFunc(s.cfg.ClearDelay, func() { s.clearIfUnchanged(snapGen) })
		s.logger.InfoContext(ctx, "slip: wager accepted",
			slog.Int("legs", len(legs)),
			slog.String("amount", amount.String()),
		)
	}
	return res
}
