// Package erp pushes error records to the external ERP system. The real
// integration does not exist yet; SimulatedDynamics stands in for it
// behind the Connector interface so the rest of the service is testable
// without network timing.
package erp

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"accounfix/internal/domain"
	"accounfix/internal/store"
)

type Connector interface {
	Push(ctx context.Context, rec *domain.ErrorRecord) (string, error)
}

// SimulatedDynamics mimics a Dynamics 365 push: wait a fixed delay, hand
// back a synthetic identifier.
type SimulatedDynamics struct {
	Delay time.Duration
}

func (d *SimulatedDynamics) Push(ctx context.Context, rec *domain.ErrorRecord) (string, error) {
	select {
	case <-time.After(d.Delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return fmt.Sprintf("MS-DYN-%04d", rand.Intn(10000)), nil
}

// Service runs the one-way sync of a record and records the outcome.
type Service struct {
	store     *store.ErrorStore
	connector Connector
}

func NewService(s *store.ErrorStore, c Connector) *Service {
	return &Service{store: s, connector: c}
}

// Sync pushes the record and stamps the returned external id on it. The
// caller owns the started/completed feedback around this call.
func (s *Service) Sync(ctx context.Context, id string) (*domain.ErrorRecord, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	log.Printf("erp sync started record=%s title=%q", rec.ID, rec.Title)
	externalID, err := s.connector.Push(ctx, rec)
	if err != nil {
		log.Printf("erp sync failed record=%s err=%v", rec.ID, err)
		return nil, fmt.Errorf("pushing record %s: %w", rec.ID, err)
	}

	updated, err := s.store.MarkSynced(id, externalID)
	if err != nil {
		return nil, err
	}
	log.Printf("erp sync completed record=%s external_id=%s", rec.ID, externalID)
	return updated, nil
}
