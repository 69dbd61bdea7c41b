package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
	domainerrors "nature-widget.backend/internal/domain/errors"
	"nature-widget.backend/internal/domain/repositories"
)

type lapsedDomainSource interface {
	FindLapsedExtras(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Domain, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type keyRevoker interface {
	FindActiveByDomainID(ctx context.Context, domainID uuid.UUID) (*entities.ApiKey, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// BillingLapseJob deactivates extra domains whose billing period lapsed past
// the grace window. Each domain is cancelled together with its key in one
// transaction, same as a user-initiated cancellation.
type BillingLapseJob struct {
	domains  lapsedDomainSource
	keys     keyRevoker
	uow      repositories.UnitOfWork
	interval time.Duration
	grace    time.Duration
	stop     chan struct{}
}

func NewBillingLapseJob(domains lapsedDomainSource, keys keyRevoker, uow repositories.UnitOfWork) *BillingLapseJob {
	return &BillingLapseJob{
		domains:  domains,
		keys:     keys,
		uow:      uow,
		interval: time.Hour,
		grace:    7 * 24 * time.Hour,
		stop:     make(chan struct{}),
	}
}

func (j *BillingLapseJob) Start(ctx context.Context) {
	log.Println("🕐 Starting billing lapse job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Billing lapse job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Billing lapse job stopped")
			return
		case <-ticker.C:
			j.processLapsedDomains(ctx)
		}
	}
}

func (j *BillingLapseJob) Stop() {
	close(j.stop)
}

func (j *BillingLapseJob) processLapsedDomains(ctx context.Context) {
	cutoff := time.Now().Add(-j.grace)

	lapsed, err := j.domains.FindLapsedExtras(ctx, cutoff, 100)
	if err != nil {
		log.Printf("❌ Error fetching lapsed domains: %v", err)
		return
	}

	if len(lapsed) == 0 {
		return
	}

	log.Printf("🔄 Processing %d lapsed domains...", len(lapsed))

	for _, d := range lapsed {
		err := j.uow.Do(ctx, func(txCtx context.Context) error {
			if err := j.domains.Deactivate(txCtx, d.ID); err != nil {
				return err
			}
			key, err := j.keys.FindActiveByDomainID(txCtx, d.ID)
			if err != nil {
				if err == domainerrors.ErrNotFound {
					return nil
				}
				return err
			}
			return j.keys.Revoke(txCtx, key.ID)
		})
		if err != nil {
			log.Printf("❌ Error deactivating lapsed domain %s: %v", d.Host, err)
			continue
		}
		log.Printf("✅ Deactivated lapsed domain %s", d.Host)
	}
}
