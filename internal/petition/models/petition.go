package models

import (
	"fmt"
	"time"
)

// Petition is the aggregate root for a signature campaign.
//
// Invariants:
//   - Name is 3-255 characters, EmailSubject 3-255, EmailContent at least 10
//   - Target is greater than zero
//   - SignatureCount starts at 0 and only the sign path increments it
//   - CreatedAt is immutable; UpdatedAt moves on every mutation
//
// Deleting a petition deletes its signatures.
type Petition struct {
	ID             int64
	Name           string
	Target         int
	SignatureCount int
	EmailSubject   string
	EmailContent   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPetition builds a petition from a validated request.
func NewPetition(req *CreatePetitionRequest, now time.Time) *Petition {
	return &Petition{
		Name:         req.Name,
		Target:       req.Target,
		EmailSubject: req.EmailSubject,
		EmailContent: req.EmailContent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyUpdate copies the fields present in req. Absent fields are untouched.
// Call req.Validate first.
func (p *Petition) ApplyUpdate(req *UpdatePetitionRequest, now time.Time) {
	if v, ok := req.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := req.Target.Get(); ok {
		p.Target = v
	}
	if v, ok := req.EmailSubject.Get(); ok {
		p.EmailSubject = v
	}
	if v, ok := req.EmailContent.Get(); ok {
		p.EmailContent = v
	}
	p.UpdatedAt = now
}

// RecordSignature bumps the counter for one accepted signature.
func (p *Petition) RecordSignature(now time.Time) {
	p.SignatureCount++
	p.UpdatedAt = now
}

func (p *Petition) String() string {
	return fmt.Sprintf("%s (%d/%d)", p.Name, p.SignatureCount, p.Target)
}

// PetitionDetails is a petition with its signatures, most recent first.
type PetitionDetails struct {
	Petition   *Petition
	Signatures []*Signature
}
