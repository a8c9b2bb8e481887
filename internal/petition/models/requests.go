package models

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	dErrors "petitions/pkg/domain-errors"
	"petitions/pkg/email"
)

// Field bounds, counted in characters.
const (
	PetitionNameMinLength  = 3
	PetitionNameMaxLength  = 255
	EmailSubjectMinLength  = 3
	EmailSubjectMaxLength  = 255
	EmailContentMinLength  = 10
	SignerNameMinLength    = 1
	SignerNameMaxLength    = 100
	PhoneNumberMinLength   = 5
	PhoneNumberMaxLength   = 20
	EmailAddressMaxLength  = 254
	errMsgPhoneNumber      = "invalid phone number format, must include country code (e.g. +1234567890)"
	errMsgNullNotPermitted = "may not be null"
)

var phoneNumberPattern = regexp.MustCompile(`^\+?[0-9]{5,20}$`)

// CreatePetitionRequest is the input for creating a petition.
type CreatePetitionRequest struct {
	Name         string `json:"name"`
	Target       int    `json:"target"`
	EmailSubject string `json:"email_subject"`
	EmailContent string `json:"email_content"`
}

func (r *CreatePetitionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.EmailSubject = strings.TrimSpace(r.EmailSubject)
	r.EmailContent = strings.TrimSpace(r.EmailContent)
}

// Validate reports every violated field, not just the first.
func (r *CreatePetitionRequest) Validate() error {
	var fields dErrors.FieldErrors
	checkLength(&fields, "name", r.Name, PetitionNameMinLength, PetitionNameMaxLength)
	checkTarget(&fields, r.Target)
	checkLength(&fields, "email_subject", r.EmailSubject, EmailSubjectMinLength, EmailSubjectMaxLength)
	checkLength(&fields, "email_content", r.EmailContent, EmailContentMinLength, 0)
	return fields.Err()
}

// UpdatePetitionRequest is a partial patch. Only fields present in the
// payload are applied; signature_count is not patchable.
type UpdatePetitionRequest struct {
	Name         Optional[string] `json:"name,omitzero"`
	Target       Optional[int]    `json:"target,omitzero"`
	EmailSubject Optional[string] `json:"email_subject,omitzero"`
	EmailContent Optional[string] `json:"email_content,omitzero"`
}

func (r *UpdatePetitionRequest) Normalize() {
	r.Name.Value = strings.TrimSpace(r.Name.Value)
	r.EmailSubject.Value = strings.TrimSpace(r.EmailSubject.Value)
	r.EmailContent.Value = strings.TrimSpace(r.EmailContent.Value)
}

// Validate applies the create bounds to every present field.
func (r *UpdatePetitionRequest) Validate() error {
	var fields dErrors.FieldErrors
	if present(&fields, "name", r.Name) {
		checkLength(&fields, "name", r.Name.Value, PetitionNameMinLength, PetitionNameMaxLength)
	}
	if present(&fields, "target", r.Target) {
		checkTarget(&fields, r.Target.Value)
	}
	if present(&fields, "email_subject", r.EmailSubject) {
		checkLength(&fields, "email_subject", r.EmailSubject.Value, EmailSubjectMinLength, EmailSubjectMaxLength)
	}
	if present(&fields, "email_content", r.EmailContent) {
		checkLength(&fields, "email_content", r.EmailContent.Value, EmailContentMinLength, 0)
	}
	return fields.Err()
}

// IsEmpty reports whether the patch carries no fields at all.
func (r *UpdatePetitionRequest) IsEmpty() bool {
	return !r.Name.Set && !r.Target.Set && !r.EmailSubject.Set && !r.EmailContent.Set
}

// SignPetitionRequest is the input for signing a petition. Consent flags
// default to false when omitted.
type SignPetitionRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	EmailConsent bool   `json:"email_consent"`
	PhoneConsent bool   `json:"phone_consent"`
}

// Normalize trims input and lower-cases the email domain, so the uniqueness
// check sees one spelling per mailbox host.
func (r *SignPetitionRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Email = strings.TrimSpace(r.Email)
	if at := strings.LastIndexByte(r.Email, '@'); at >= 0 {
		r.Email = r.Email[:at] + strings.ToLower(r.Email[at:])
	}
}

func (r *SignPetitionRequest) Validate() error {
	var fields dErrors.FieldErrors
	checkLength(&fields, "first_name", r.FirstName, SignerNameMinLength, SignerNameMaxLength)
	checkLength(&fields, "last_name", r.LastName, SignerNameMinLength, SignerNameMaxLength)
	if utf8.RuneCountInString(r.Email) > EmailAddressMaxLength || email.Validate(r.Email) != nil {
		fields.Add("email", "value is not a valid email address")
	}
	checkPhoneNumber(&fields, r.PhoneNumber)
	return fields.Err()
}

// ValidPhoneNumber reports whether s is an optional "+" followed by 5-20
// digits, at most 20 characters in total.
func ValidPhoneNumber(s string) bool {
	n := len(s)
	return n >= PhoneNumberMinLength && n <= PhoneNumberMaxLength && phoneNumberPattern.MatchString(s)
}

func checkPhoneNumber(fields *dErrors.FieldErrors, s string) {
	if !ValidPhoneNumber(s) {
		fields.Add("phone_number", errMsgPhoneNumber)
	}
}

// checkLength validates a character count; max <= 0 means unbounded.
func checkLength(fields *dErrors.FieldErrors, field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(value)
	switch {
	case maxLen > 0 && (n < minLen || n > maxLen):
		fields.Add(field, fmt.Sprintf("must be between %d and %d characters", minLen, maxLen))
	case n < minLen:
		fields.Add(field, fmt.Sprintf("must be at least %d characters", minLen))
	}
}

func checkTarget(fields *dErrors.FieldErrors, target int) {
	if target <= 0 {
		fields.Add("target", "must be greater than 0")
	}
}

func present[T any](fields *dErrors.FieldErrors, field string, o Optional[T]) bool {
	if !o.Set {
		return false
	}
	if o.Null {
		fields.Add(field, errMsgNullNotPermitted)
		return false
	}
	return true
}
