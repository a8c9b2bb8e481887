package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"petitions/internal/notification/queue"
	"petitions/internal/petition/metrics"
	"petitions/internal/petition/models"
	dErrors "petitions/pkg/domain-errors"
	"petitions/pkg/email"
	"petitions/pkg/platform/sentinel"
	"petitions/pkg/requestcontext"
)

// Store persists petitions and signatures. Implementations must enforce
// (petition_id, email) uniqueness themselves and report a clash as
// sentinel.ErrAlreadyUsed; missing rows are sentinel.ErrNotFound.
type Store interface {
	ListPetitions(ctx context.Context) ([]*models.Petition, error)
	CreatePetition(ctx context.Context, petition *models.Petition) error
	FindPetitionByID(ctx context.Context, id int64) (*models.Petition, error)
	// UpdatePetition writes the editable fields and UpdatedAt. It never
	// touches SignatureCount.
	UpdatePetition(ctx context.Context, petition *models.Petition) error
	DeletePetition(ctx context.Context, id int64) error
	ListSignatures(ctx context.Context, petitionID int64) ([]*models.Signature, error)
	// FindPetitionWithSignatures reads both from one consistent snapshot.
	FindPetitionWithSignatures(ctx context.Context, id int64) (*models.PetitionDetails, error)
	// AddSignature inserts the signature and bumps the petition's counter
	// (UpdatedAt = signature.CreatedAt) atomically for readers.
	AddSignature(ctx context.Context, signature *models.Signature) error
}

// Notifier queues confirmation jobs. queue.Queue satisfies it.
type Notifier interface {
	Enqueue(ctx context.Context, job queue.Job) error
}

// Service is the only path that mutates petitions and signatures. It keeps
// the uniqueness and counter invariants in one place.
type Service struct {
	store    Store
	tx       PetitionStoreTx
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithTx replaces the default in-memory sharded transaction.
func WithTx(tx PetitionStoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("petitions/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(store)
	}
	return s
}

// ListPetitions returns every petition, most recently created first.
func (s *Service) ListPetitions(ctx context.Context) ([]*models.Petition, error) {
	ctx, span := s.tracer.Start(ctx, "petition.list")
	defer span.End()

	petitions, err := s.store.ListPetitions(ctx)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list petitions"))
	}
	return petitions, nil
}

// CreatePetition validates req and persists a petition with no signatures.
func (s *Service) CreatePetition(ctx context.Context, req *models.CreatePetitionRequest) (*models.Petition, error) {
	ctx, span := s.tracer.Start(ctx, "petition.create")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, s.fail(span, err)
	}

	petition := models.NewPetition(req, s.now(ctx))
	if err := s.store.CreatePetition(ctx, petition); err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create petition"))
	}
	span.SetAttributes(attribute.Int64("petition.id", petition.ID))

	s.logger.InfoContext(ctx, "petition created",
		"request_id", requestcontext.RequestID(ctx),
		"petition_id", petition.ID,
		"petition", petition.String(),
	)
	s.metrics.IncrementPetitionsCreated()
	return petition, nil
}

// GetPetition returns the petition with its signatures, most recent first.
func (s *Service) GetPetition(ctx context.Context, id int64) (*models.PetitionDetails, error) {
	start := time.Now()
	defer s.metrics.ObserveGetPetition(start)
	ctx, span := s.tracer.Start(ctx, "petition.get", trace.WithAttributes(attribute.Int64("petition.id", id)))
	defer span.End()

	details, err := s.store.FindPetitionWithSignatures(ctx, id)
	if err != nil {
		return nil, s.fail(span, petitionLookupError(err))
	}
	return details, nil
}

// UpdatePetition applies only the fields present in req.
func (s *Service) UpdatePetition(ctx context.Context, id int64, req *models.UpdatePetitionRequest) (*models.Petition, error) {
	ctx, span := s.tracer.Start(ctx, "petition.update", trace.WithAttributes(attribute.Int64("petition.id", id)))
	defer span.End()

	req.Normalize()
	var updated *models.Petition
	err := s.tx.RunInTx(withPetitionKey(ctx, id), func(ctx context.Context, store Store) error {
		petition, err := store.FindPetitionByID(ctx, id)
		if err != nil {
			return petitionLookupError(err)
		}
		if err := req.Validate(); err != nil {
			return err
		}
		petition.ApplyUpdate(req, s.now(ctx))
		if err := store.UpdatePetition(ctx, petition); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "petition not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update petition")
		}
		updated = petition
		return nil
	})
	if err != nil {
		return nil, s.fail(span, asDomainError(err, "failed to update petition"))
	}
	return updated, nil
}

// DeletePetition removes the petition and, with it, all of its signatures.
func (s *Service) DeletePetition(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "petition.delete", trace.WithAttributes(attribute.Int64("petition.id", id)))
	defer span.End()

	err := s.tx.RunInTx(withPetitionKey(ctx, id), func(ctx context.Context, store Store) error {
		if err := store.DeletePetition(ctx, id); err != nil {
			return petitionLookupError(err)
		}
		return nil
	})
	if err != nil {
		return s.fail(span, asDomainError(err, "failed to delete petition"))
	}

	s.logger.InfoContext(ctx, "petition deleted",
		"request_id", requestcontext.RequestID(ctx),
		"petition_id", id,
	)
	s.metrics.IncrementPetitionsDeleted()
	return nil
}

// ListSignatures returns the petition's signatures, most recent first.
func (s *Service) ListSignatures(ctx context.Context, petitionID int64) ([]*models.Signature, error) {
	ctx, span := s.tracer.Start(ctx, "petition.signatures.list", trace.WithAttributes(attribute.Int64("petition.id", petitionID)))
	defer span.End()

	if _, err := s.store.FindPetitionByID(ctx, petitionID); err != nil {
		return nil, s.fail(span, petitionLookupError(err))
	}
	signatures, err := s.store.ListSignatures(ctx, petitionID)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list signatures"))
	}
	return signatures, nil
}

// SignPetition records a signature and bumps the petition's counter in one
// transaction. Uniqueness of (petition, email) is left to the store so two
// racing signers cannot both pass a pre-check. The confirmation job is queued
// only after commit.
func (s *Service) SignPetition(ctx context.Context, petitionID int64, req *models.SignPetitionRequest) (*models.Signature, error) {
	start := time.Now()
	defer s.metrics.ObserveSignPetition(start)
	ctx, span := s.tracer.Start(ctx, "petition.sign", trace.WithAttributes(attribute.Int64("petition.id", petitionID)))
	defer span.End()

	req.Normalize()
	var (
		signature    *models.Signature
		petitionName string
	)
	err := s.tx.RunInTx(withPetitionKey(ctx, petitionID), func(ctx context.Context, store Store) error {
		petition, err := store.FindPetitionByID(ctx, petitionID)
		if err != nil {
			return petitionLookupError(err)
		}
		if err := req.Validate(); err != nil {
			return err
		}

		now := s.now(ctx)
		sig := models.NewSignature(petitionID, req, now)
		if err := store.AddSignature(ctx, sig); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				return dErrors.New(dErrors.CodeConflict, "petition already signed with this email")
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "petition not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record signature")
		}
		signature = sig
		petitionName = petition.Name
		return nil
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.metrics.IncrementDuplicateSignatures()
			s.logger.InfoContext(ctx, "duplicate signature rejected",
				"request_id", requestcontext.RequestID(ctx),
				"petition_id", petitionID,
				"email", email.Redact(req.Email),
			)
		}
		return nil, s.fail(span, asDomainError(err, "failed to sign petition"))
	}

	s.metrics.IncrementSignaturesRecorded()
	s.logger.InfoContext(ctx, "petition signed",
		"request_id", requestcontext.RequestID(ctx),
		"petition_id", petitionID,
		"signature_id", signature.ID,
	)
	s.enqueueConfirmation(ctx, signature, petitionName)
	return signature, nil
}

// enqueueConfirmation hands the job to the queue. The signature is already
// committed, so failures are logged and counted but never returned.
func (s *Service) enqueueConfirmation(ctx context.Context, signature *models.Signature, petitionName string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(ctx, queue.Job{SignatureID: signature.ID}); err != nil {
		s.metrics.IncrementEnqueueFailures()
		s.logger.WarnContext(ctx, "failed to queue confirmation email",
			"request_id", requestcontext.RequestID(ctx),
			"signature_id", signature.ID,
			"signature", signature.Describe(petitionName),
			"error", err,
		)
	}
}

// now is the request-scoped time at the precision Postgres stores, so both
// stores return identical timestamps.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Microsecond)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func petitionLookupError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "petition not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load petition")
}

// asDomainError passes domain errors through and wraps anything the
// transaction machinery produced (begin/commit failures).
func asDomainError(err error, message string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
