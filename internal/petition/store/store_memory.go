package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"petitions/internal/petition/models"
	"petitions/pkg/platform/sentinel"
)

type signatureKey struct {
	petitionID int64
	email      string
}

// InMemory keeps petitions and signatures in maps. The (petition, email)
// index is checked and written under the same lock as the insert.
type InMemory struct {
	mu              sync.RWMutex
	petitions       map[int64]*models.Petition
	signatures      map[int64]*models.Signature
	byPetitionEmail map[signatureKey]int64
	nextPetitionID  int64
	nextSignatureID int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		petitions:       make(map[int64]*models.Petition),
		signatures:      make(map[int64]*models.Signature),
		byPetitionEmail: make(map[signatureKey]int64),
	}
}

func (s *InMemory) ListPetitions(_ context.Context) ([]*models.Petition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Petition, 0, len(s.petitions))
	for _, p := range s.petitions {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (s *InMemory) CreatePetition(_ context.Context, petition *models.Petition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPetitionID++
	petition.ID = s.nextPetitionID
	cp := *petition
	s.petitions[cp.ID] = &cp
	return nil
}

func (s *InMemory) FindPetitionByID(_ context.Context, id int64) (*models.Petition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.petitions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) UpdatePetition(_ context.Context, petition *models.Petition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.petitions[petition.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	current.Name = petition.Name
	current.Target = petition.Target
	current.EmailSubject = petition.EmailSubject
	current.EmailContent = petition.EmailContent
	current.UpdatedAt = petition.UpdatedAt
	petition.SignatureCount = current.SignatureCount
	return nil
}

// DeletePetition removes the petition and cascades to its signatures.
func (s *InMemory) DeletePetition(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.petitions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.petitions, id)
	for sigID, sig := range s.signatures {
		if sig.PetitionID == id {
			delete(s.signatures, sigID)
			delete(s.byPetitionEmail, signatureKey{petitionID: id, email: sig.Email})
		}
	}
	return nil
}

func (s *InMemory) ListSignatures(_ context.Context, petitionID int64) ([]*models.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.signaturesOf(petitionID), nil
}

// signaturesOf copies the petition's signatures, newest first. Callers hold mu.
func (s *InMemory) signaturesOf(petitionID int64) []*models.Signature {
	out := make([]*models.Signature, 0)
	for _, sig := range s.signatures {
		if sig.PetitionID == petitionID {
			cp := *sig
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out
}

// AddSignature inserts the signature and bumps its petition's counter under
// one write lock, so no reader sees the row without the count or the other
// way round. A second signature from the same email fails with ErrAlreadyUsed.
func (s *InMemory) AddSignature(_ context.Context, signature *models.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.petitions[signature.PetitionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	key := signatureKey{petitionID: signature.PetitionID, email: signature.Email}
	if _, taken := s.byPetitionEmail[key]; taken {
		return fmt.Errorf("signature for petition %d: %w", signature.PetitionID, sentinel.ErrAlreadyUsed)
	}

	s.nextSignatureID++
	signature.ID = s.nextSignatureID
	cp := *signature
	s.signatures[cp.ID] = &cp
	s.byPetitionEmail[key] = cp.ID
	p.RecordSignature(signature.CreatedAt)
	return nil
}

// FindPetitionWithSignatures reads the petition and its signatures under one
// read lock.
func (s *InMemory) FindPetitionWithSignatures(_ context.Context, id int64) (*models.PetitionDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.petitions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &models.PetitionDetails{Petition: &cp, Signatures: s.signaturesOf(id)}, nil
}

// FindSignatureWithPetition loads a signature and its owning petition.
func (s *InMemory) FindSignatureWithPetition(_ context.Context, id int64) (*models.Signature, *models.Petition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, ok := s.signatures[id]
	if !ok {
		return nil, nil, sentinel.ErrNotFound
	}
	p, ok := s.petitions[sig.PetitionID]
	if !ok {
		return nil, nil, sentinel.ErrNotFound
	}
	sigCopy, petitionCopy := *sig, *p
	return &sigCopy, &petitionCopy, nil
}

func newerFirst(aCreated time.Time, aID int64, bCreated time.Time, bID int64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID > bID
}
