package handler

import (
	"time"

	"petitions/internal/petition/models"
)

// PetitionResponse is the wire form of a petition.
type PetitionResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Target         int       `json:"target"`
	SignatureCount int       `json:"signature_count"`
	EmailSubject   string    `json:"email_subject"`
	EmailContent   string    `json:"email_content"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PetitionDetailResponse adds the petition's signatures.
type PetitionDetailResponse struct {
	PetitionResponse
	Signatures []SignatureResponse `json:"signatures"`
}

type SignatureResponse struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	EmailConsent bool      `json:"email_consent"`
	PhoneConsent bool      `json:"phone_consent"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPetitionResponse(p *models.Petition) PetitionResponse {
	return PetitionResponse{
		ID:             p.ID,
		Name:           p.Name,
		Target:         p.Target,
		SignatureCount: p.SignatureCount,
		EmailSubject:   p.EmailSubject,
		EmailContent:   p.EmailContent,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPetitionResponses(petitions []*models.Petition) []PetitionResponse {
	out := make([]PetitionResponse, 0, len(petitions))
	for _, p := range petitions {
		out = append(out, toPetitionResponse(p))
	}
	return out
}

func toPetitionDetailResponse(d *models.PetitionDetails) PetitionDetailResponse {
	return PetitionDetailResponse{
		PetitionResponse: toPetitionResponse(d.Petition),
		Signatures:       toSignatureResponses(d.Signatures),
	}
}

func toSignatureResponse(s *models.Signature) SignatureResponse {
	return SignatureResponse{
		ID:           s.ID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		PhoneNumber:  s.PhoneNumber,
		EmailConsent: s.EmailConsent,
		PhoneConsent: s.PhoneConsent,
		CreatedAt:    s.CreatedAt,
	}
}

func toSignatureResponses(signatures []*models.Signature) []SignatureResponse {
	out := make([]SignatureResponse, 0, len(signatures))
	for _, s := range signatures {
		out = append(out, toSignatureResponse(s))
	}
	return out
}
