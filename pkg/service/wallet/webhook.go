package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/walletd/pkg/domain"
	walletdomain "github.com/amirasaad/walletd/pkg/domain/wallet"
	"github.com/amirasaad/walletd/pkg/repository"
)

// EventKind is the finite set of gateway notification kinds the reconciler
// understands, plus an explicit unrecognized fallback that is accepted and
// ignored rather than treated as an error.
type EventKind string

const (
	EventChargeSuccess EventKind = "charge.success"
	EventChargeFailed  EventKind = "charge.failed"
	EventUnrecognized  EventKind = "unrecognized"
)

// Event is the parsed form of a gateway webhook payload.
type Event struct {
	Kind      EventKind
	Reference string
	// Amount is the gateway-reported amount; nil when the payload omits it.
	Amount *int64
	PaidAt *time.Time
}

type rawEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    *int64 `json:"amount"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// ParseEvent decodes a raw webhook body into a tagged Event. Unknown event
// names map to EventUnrecognized.
func ParseEvent(rawBody []byte) (*Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook payload", domain.ErrValidation)
	}
	ev := &Event{
		Reference: raw.Data.Reference,
		Amount:    raw.Data.Amount,
	}
	switch EventKind(raw.Event) {
	case EventChargeSuccess:
		ev.Kind = EventChargeSuccess
	case EventChargeFailed:
		ev.Kind = EventChargeFailed
	default:
		ev.Kind = EventUnrecognized
	}
	if raw.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, raw.Data.PaidAt); err == nil {
			ev.PaidAt = &t
		}
	}
	return ev, nil
}

// ReconciliationResult reports the outcome of applying one webhook. Replays
// are successful no-ops reported distinctly from first-time application so
// tests and logs can tell them apart.
type ReconciliationResult struct {
	// Applied is true when this call mutated the ledger.
	Applied bool `json:"applied"`
	// AlreadyProcessed is true on an idempotent replay of a settled deposit.
	AlreadyProcessed bool `json:"already_processed,omitempty"`
	// Ignored is true for recognized-but-irrelevant or unrecognized events.
	Ignored bool `json:"ignored,omitempty"`
	// Status is the transaction's terminal status when one was reached.
	Status walletdomain.TransactionStatus `json:"status,omitempty"`
}

// ProcessWebhook validates and applies one gateway notification to the
// ledger exactly once. Each gate aborts before the next:
// signature presence, signature over the exact raw bytes, event-type filter,
// reference lookup, idempotency, amount consistency, then the atomic apply
// in which the terminal status write and the balance increment commit
// together or not at all.
func (s *Service) ProcessWebhook(ctx context.Context, rawBody []byte, signature string) (*ReconciliationResult, error) {
	log := s.logger.With("context", "ProcessWebhook")

	if signature == "" {
		return nil, domain.ErrMissingSignature
	}
	if err := s.gateway.VerifySignature(rawBody, signature); err != nil {
		log.Warn("webhook signature rejected")
		return nil, err
	}

	ev, err := ParseEvent(rawBody)
	if err != nil {
		return nil, err
	}
	if ev.Kind == EventUnrecognized {
		log.Info("ignoring unrecognized webhook event")
		return &ReconciliationResult{Ignored: true}, nil
	}
	if ev.Reference == "" {
		return nil, fmt.Errorf("%w: missing reference in webhook payload", domain.ErrValidation)
	}
	log = log.With("reference", ev.Reference, "event", ev.Kind)

	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txn, err := txRepo.GetByReference(ctx, ev.Reference)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	// Gateways retry notifications; this path is hit repeatedly in
	// production and must stay a cheap no-op.
	if txn.Status == string(walletdomain.StatusSuccess) {
		log.Info("webhook replay, already processed")
		return &ReconciliationResult{AlreadyProcessed: true, Status: walletdomain.StatusSuccess}, nil
	}

	if ev.Amount != nil && *ev.Amount != txn.Amount {
		log.Warn("webhook amount mismatch", "reported", *ev.Amount, "stored", txn.Amount)
		return nil, domain.ErrAmountMismatch
	}

	terminal := walletdomain.StatusFailed
	if ev.Kind == EventChargeSuccess {
		terminal = walletdomain.StatusSuccess
	}
	settledAt := time.Now().UTC()
	if ev.PaidAt != nil {
		settledAt = ev.PaidAt.UTC()
	}

	var result *ReconciliationResult
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		// Re-read under lock: a concurrent delivery of the same notification
		// may have settled the row between the gate above and this commit.
		current, err := txRepo.GetByReferenceForUpdate(ctx, ev.Reference)
		if err != nil {
			return err
		}
		if walletdomain.TransactionStatus(current.Status).Terminal() {
			result = &ReconciliationResult{
				AlreadyProcessed: true,
				Status:           walletdomain.TransactionStatus(current.Status),
			}
			return nil
		}

		if err := txRepo.Settle(ctx, current.ID, string(terminal), settledAt); err != nil {
			return err
		}

		if terminal == walletdomain.StatusSuccess {
			walletRepo, err := uow.WalletRepository()
			if err != nil {
				return err
			}
			w, err := walletRepo.GetByUser(ctx, current.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrWalletNotFound
			}
			if err != nil {
				return err
			}
			if err := walletRepo.Credit(ctx, w.ID, current.Amount); err != nil {
				return err
			}
		}

		result = &ReconciliationResult{Applied: true, Status: terminal}
		return nil
	})
	if err != nil {
		log.Error("webhook apply failed", "error", err)
		return nil, err
	}

	log.Info("webhook reconciled",
		"status", result.Status,
		"applied", result.Applied,
		"already_processed", result.AlreadyProcessed,
	)
	return result, nil
}
