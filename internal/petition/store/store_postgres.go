package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"petitions/internal/petition/models"
	"petitions/pkg/platform/sentinel"
	txcontext "petitions/pkg/platform/tx"
)

// PostgreSQL error codes the store translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const petitionColumns = `id, name, target, signature_count, email_subject, email_content, created_at, updated_at`

const signatureColumns = `id, petition_id, first_name, last_name, email, phone_number, email_consent, phone_consent, created_at`

// PostgresStore persists petitions and signatures in PostgreSQL. The
// petition_signatures (petition_id, email) unique constraint is the only
// duplicate check; the foreign key cascades deletes.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed petition store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) execer(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFor(ctx, s.db)
}

func (s *PostgresStore) ListPetitions(ctx context.Context) ([]*models.Petition, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+petitionColumns+` FROM petitions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query petitions: %w", err)
	}
	defer rows.Close()

	petitions := make([]*models.Petition, 0)
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		petitions = append(petitions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate petitions: %w", err)
	}
	return petitions, nil
}

func (s *PostgresStore) CreatePetition(ctx context.Context, petition *models.Petition) error {
	query := `
		INSERT INTO petitions (name, target, signature_count, email_subject, email_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		petition.Name,
		petition.Target,
		petition.SignatureCount,
		petition.EmailSubject,
		petition.EmailContent,
		petition.CreatedAt,
		petition.UpdatedAt,
	).Scan(&petition.ID)
	if err != nil {
		return fmt.Errorf("insert petition: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPetitionByID(ctx context.Context, id int64) (*models.Petition, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+petitionColumns+` FROM petitions WHERE id = $1`, id)
	p, err := scanPetition(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdatePetition writes the editable columns only, so a concurrent signature
// increment is never overwritten by a stale count.
func (s *PostgresStore) UpdatePetition(ctx context.Context, petition *models.Petition) error {
	query := `
		UPDATE petitions
		SET name = $2, target = $3, email_subject = $4, email_content = $5, updated_at = $6
		WHERE id = $1
		RETURNING signature_count
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		petition.ID,
		petition.Name,
		petition.Target,
		petition.EmailSubject,
		petition.EmailContent,
		petition.UpdatedAt,
	).Scan(&petition.SignatureCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("update petition: %w", err)
	}
	return nil
}

// DeletePetition relies on ON DELETE CASCADE to remove signatures.
func (s *PostgresStore) DeletePetition(ctx context.Context, id int64) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM petitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete petition: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) ListSignatures(ctx context.Context, petitionID int64) ([]*models.Signature, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+signatureColumns+` FROM petition_signatures WHERE petition_id = $1 ORDER BY created_at DESC, id DESC`,
		petitionID)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	signatures := make([]*models.Signature, 0)
	for rows.Next() {
		sig, err := scanSignature(rows)
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}
	return signatures, nil
}

// AddSignature inserts the row and bumps the petition's counter in one
// statement, so the pair commits together even outside a transaction. The
// unique constraint decides duplicates.
func (s *PostgresStore) AddSignature(ctx context.Context, signature *models.Signature) error {
	query := `
		WITH inserted AS (
			INSERT INTO petition_signatures (
				petition_id, first_name, last_name, email, phone_number,
				email_consent, phone_consent, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, petition_id, created_at
		), counted AS (
			UPDATE petitions
			SET signature_count = signature_count + 1, updated_at = inserted.created_at
			FROM inserted
			WHERE petitions.id = inserted.petition_id
		)
		SELECT id FROM inserted
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		signature.PetitionID,
		signature.FirstName,
		signature.LastName,
		signature.Email,
		signature.PhoneNumber,
		signature.EmailConsent,
		signature.PhoneConsent,
		signature.CreatedAt,
	).Scan(&signature.ID)
	if err != nil {
		return mapWriteError(err, "insert signature")
	}
	return nil
}

// FindPetitionWithSignatures reads the petition and its signatures from one
// snapshot. Outside a caller's transaction it opens a read-only REPEATABLE
// READ one, so a signer committing between the two queries is either fully
// visible or not at all.
func (s *PostgresStore) FindPetitionWithSignatures(ctx context.Context, id int64) (*models.PetitionDetails, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.findPetitionWithSignatures(ctx, id)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	details, err := s.findPetitionWithSignatures(txcontext.WithTx(ctx, tx), id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return details, nil
}

func (s *PostgresStore) findPetitionWithSignatures(ctx context.Context, id int64) (*models.PetitionDetails, error) {
	petition, err := s.FindPetitionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	signatures, err := s.ListSignatures(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PetitionDetails{Petition: petition, Signatures: signatures}, nil
}

// FindSignatureWithPetition loads a signature joined with its petition.
func (s *PostgresStore) FindSignatureWithPetition(ctx context.Context, id int64) (*models.Signature, *models.Petition, error) {
	query := `
		SELECT s.id, s.petition_id, s.first_name, s.last_name, s.email, s.phone_number,
			   s.email_consent, s.phone_consent, s.created_at,
			   p.id, p.name, p.target, p.signature_count, p.email_subject, p.email_content,
			   p.created_at, p.updated_at
		FROM petition_signatures s
		JOIN petitions p ON p.id = s.petition_id
		WHERE s.id = $1
	`
	var (
		sig models.Signature
		p   models.Petition
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(
		&sig.ID, &sig.PetitionID, &sig.FirstName, &sig.LastName, &sig.Email, &sig.PhoneNumber,
		&sig.EmailConsent, &sig.PhoneConsent, &sig.CreatedAt,
		&p.ID, &p.Name, &p.Target, &p.SignatureCount, &p.EmailSubject, &p.EmailContent,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, sentinel.ErrNotFound
		}
		return nil, nil, fmt.Errorf("find signature with petition: %w", err)
	}
	return &sig, &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPetition(row rowScanner) (*models.Petition, error) {
	var p models.Petition
	err := row.Scan(&p.ID, &p.Name, &p.Target, &p.SignatureCount, &p.EmailSubject, &p.EmailContent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan petition: %w", err)
	}
	return &p, nil
}

func scanSignature(row rowScanner) (*models.Signature, error) {
	var sig models.Signature
	err := row.Scan(&sig.ID, &sig.PetitionID, &sig.FirstName, &sig.LastName, &sig.Email, &sig.PhoneNumber,
		&sig.EmailConsent, &sig.PhoneConsent, &sig.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan signature: %w", err)
	}
	return &sig, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// mapWriteError turns constraint violations into sentinels: a unique clash
// is ErrAlreadyUsed, a missing parent row is ErrNotFound.
func mapWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Constraint, sentinel.ErrAlreadyUsed)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
