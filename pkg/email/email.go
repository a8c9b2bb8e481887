package email

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var ErrInvalidAddress = errors.New("invalid email address")

// Validate accepts a bare addr-spec ("local@domain.tld"). Display names,
// angle brackets and single-label domains are rejected.
func Validate(address string) error {
	if address == "" || strings.ContainsAny(address, " \t\r\n<>") {
		return ErrInvalidAddress
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Name != "" || parsed.Address != address {
		return ErrInvalidAddress
	}
	at := strings.LastIndexByte(address, '@')
	if at <= 0 {
		return ErrInvalidAddress
	}
	domain := address[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrInvalidAddress
	}
	return nil
}

// Redact keeps the first rune of the local part and the domain, which is
// enough to correlate log lines without storing the address.
func Redact(address string) string {
	at := strings.LastIndexByte(address, '@')
	if at <= 0 {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(address)
	return address[:size] + "***" + address[at:]
}
