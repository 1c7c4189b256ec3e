package booking

import (
	"regexp"
	"strings"

	"github.com/salonflow/salon-scheduler/internal/httperr"
)

const (
	minDurationMin = 15
	maxDurationMin = 480
)

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	uaPhoneRe  = regexp.MustCompile(`^\+380\d{9}$`)
	anyPhoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
)

func validateClientName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return "", httperr.ErrBusiness("invalid_name")
	}
	if htmlTagRe.MatchString(trimmed) {
		return "", httperr.ErrBusiness("invalid_name")
	}
	return trimmed, nil
}

// normalizePhone strips separators. The public widget additionally
// requires the Ukrainian +380XXXXXXXXX format; staff-entered phones
// only need to look like a phone number.
func normalizePhone(phone string, strict bool) (string, error) {
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	if strict {
		if !uaPhoneRe.MatchString(clean) {
			return "", httperr.ErrBusiness("invalid_phone")
		}
		return clean, nil
	}
	if !anyPhoneRe.MatchString(clean) {
		return "", httperr.ErrBusiness("invalid_phone")
	}
	return clean, nil
}

func clampNotes(notes string) string {
	if len(notes) > 500 {
		return notes[:500]
	}
	return notes
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}
