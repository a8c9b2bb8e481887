package models

import (
	"fmt"
	"time"
)

// Signature is one person's endorsement of a petition. It is never updated;
// it goes away only when its petition is deleted.
//
// (PetitionID, Email) is unique: an address signs a petition at most once.
type Signature struct {
	ID           int64
	PetitionID   int64
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	EmailConsent bool
	PhoneConsent bool
	CreatedAt    time.Time
}

func NewSignature(petitionID int64, req *SignPetitionRequest, now time.Time) *Signature {
	return &Signature{
		PetitionID:   petitionID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		EmailConsent: req.EmailConsent,
		PhoneConsent: req.PhoneConsent,
		CreatedAt:    now,
	}
}

// Describe renders the signer against the petition name for log lines.
func (s *Signature) Describe(petitionName string) string {
	return fmt.Sprintf("%s %s - %s", s.FirstName, s.LastName, petitionName)
}
