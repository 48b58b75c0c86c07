package service

import (
	"context"
	"errors"

	"github.com/incidentdesk/incident-service/internal/incident"
	"github.com/incidentdesk/incident-service/internal/incident/repository"
	"github.com/incidentdesk/incident-service/internal/incident/sequence"
	"github.com/incidentdesk/incident-service/pkg/logger"
	"github.com/incidentdesk/incident-service/pkg/metrics"
)

var (
	ErrInvalidInput = errors.New("no data provided")
	ErrNotFound     = errors.New("no incident found with that issue number")
)

// Service defines the incident operations used by the handler layer.
// Errors other than ErrInvalidInput and ErrNotFound come straight from the
// store and keep its message.
type Service interface {
	List(ctx context.Context) ([]*incident.Incident, error)
	Create(ctx context.Context, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, issueNumber int64) error
	Update(ctx context.Context, issueNumber int64, fields map[string]interface{}) (*incident.Incident, error)
}

type incidentService struct {
	repo repository.Repository
	seq  sequence.Allocator
}

// NewService wires a repository and a sequence allocator.
func NewService(repo repository.Repository, seq sequence.Allocator) Service {
	return &incidentService{repo: repo, seq: seq}
}

// NewMemoryService returns a Service backed by in-memory storage and counter.
func NewMemoryService() Service {
	return NewService(repository.NewMemoryRepo(), sequence.NewMemoryAllocator())
}

func (s *incidentService) List(ctx context.Context) ([]*incident.Incident, error) {
	list, err := s.repo.List(ctx)
	observe("list", err)
	return list, err
}

// Create allocates the next issue number and persists fields under it.
// The number is consumed even if the insert fails; such gaps are logged and
// counted rather than rolled back.
func (s *incidentService) Create(ctx context.Context, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, ErrInvalidInput
	}
	n, err := s.seq.Next(ctx)
	if err != nil {
		observe("create", err)
		return 0, err
	}
	if err := s.repo.Insert(ctx, incident.New(n, fields)); err != nil {
		metrics.SequenceGaps.Inc()
		logger.WithFields(logger.Fields{"issue_number": n}).Warnf("insert failed, issue number skipped: %v", err)
		observe("create", err)
		return 0, err
	}
	observe("create", nil)
	logger.Debugf("incident %d created", n)
	return n, nil
}

func (s *incidentService) Delete(ctx context.Context, issueNumber int64) error {
	err := s.repo.Delete(ctx, issueNumber)
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrNotFound
	}
	observe("delete", err)
	return err
}

// Update merges fields into the incident. issue_number and _id cannot be
// changed through an update.
func (s *incidentService) Update(ctx context.Context, issueNumber int64, fields map[string]interface{}) (*incident.Incident, error) {
	set := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k == incident.IssueNumberField || k == incident.StorageIDField {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return nil, ErrInvalidInput
	}
	inc, err := s.repo.Update(ctx, issueNumber, set)
	if errors.Is(err, repository.ErrNotFound) {
		err = ErrNotFound
	}
	observe("update", err)
	if err != nil {
		return nil, err
	}
	return inc, nil
}

func observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.StoreOperations.WithLabelValues(op, outcome).Inc()
}
