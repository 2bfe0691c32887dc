package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mkulima/shambamart/internal/adapter/gateway"
	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
)

// MarketFacade exposes the subset of application functionality required by the worker.
type MarketFacade interface {
	PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error)
	CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayTransaction, error)
	CompletePayment(ctx context.Context, paymentID int64) (*model.Payment, error)
	FailPayment(ctx context.Context, paymentID int64) (*model.Payment, error)
}

// PaymentReconciler polls the payment provider and finalizes pending
// payments concurrently. Completion goes through the same state machine
// as the manual endpoint, so racing with it is harmless.
type PaymentReconciler struct {
	facade       MarketFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool.
func NewPaymentReconciler(facade MarketFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentReconciler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	payments, err := p.facade.PaymentsForReconciliation(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch payments for reconciliation failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- payment:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handlePayment(ctx, payment)
		}
	}
}

// pause waits out a provider back-off without delaying shutdown.
func (p *PaymentReconciler) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (p *PaymentReconciler) handlePayment(ctx context.Context, payment model.Payment) {
	tx, err := p.facade.CheckGatewayStatus(ctx, payment.ExternalRef)
	if err != nil {
		switch e := err.(type) {
		case gateway.TooManyRequestsError:
			p.logger.Warn("gateway rate limited", slog.Duration("retry_after", e.RetryAfter))
			p.pause(ctx, e.RetryAfter)
		default:
			if errors.Is(err, gateway.ErrTransactionUnknown) {
				// Provider has not seen the transaction yet; next poll
				// will pick it up again.
				return
			}
			p.logger.Error("gateway status fetch failed",
				slog.Int64("payment_id", payment.ID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	switch tx.Status {
	case model.GatewayStatusSucceeded:
		if _, err := p.facade.CompletePayment(ctx, payment.ID); err != nil && !errors.Is(err, domainErrors.ErrInvalidTransition) {
			p.logger.Error("complete payment failed",
				slog.Int64("payment_id", payment.ID),
				slog.String("error", err.Error()),
			)
		}
	case model.GatewayStatusFailed:
		if _, err := p.facade.FailPayment(ctx, payment.ID); err != nil && !errors.Is(err, domainErrors.ErrInvalidTransition) {
			p.logger.Error("fail payment failed",
				slog.Int64("payment_id", payment.ID),
				slog.String("error", err.Error()),
			)
		}
	case model.GatewayStatusPending:
		// Still in flight.
	default:
		p.logger.Warn("unknown gateway status",
			slog.Int64("payment_id", payment.ID),
			slog.String("status", string(tx.Status)),
		)
	}
}
