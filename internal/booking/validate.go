package booking

import (
	"fmt"
	"regexp"
	"strings"

	"table-reservation-service/internal/model"
	"table-reservation-service/internal/schedule"
)

// Integer bounds for a booking request.
const (
	MinGuests   = 1
	MaxGuests   = 12
	MaxChildren = 12

	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// sqlKeywords are stripped from free-text fields as defense in depth.
// Parameterized statements are the actual injection defense; this only
// keeps obviously hostile tokens out of stored display text.
var sqlKeywords = regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|union|truncate|alter|exec)\b`)

var dangerousChars = strings.NewReplacer(
	"'", "", `"`, "", ";", "", "`", "", "<", "", ">", "", "\\", "", "--", "",
)

// SanitizeText strips dangerous characters and SQL keyword tokens from a
// free-text field and collapses the remaining whitespace.
func SanitizeText(s string) string {
	s = dangerousChars.Replace(s)
	s = sqlKeywords.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// countDigits returns the number of ASCII digits in s.
func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ValidateDraft sanitizes and validates every field of a draft against
// the given capacity table and returns the cleaned copy together with
// the resolved area.  All failures wrap ErrValidation and name the
// offending field; the first failure wins.  The draft must carry a
// preferred area at commit time — an empty or unknown area key fails
// validation because the committed row needs an assigned area.
func ValidateDraft(draft model.Draft, areas []model.Area) (model.Draft, model.Area, error) {
	clean := draft
	clean.Name = SanitizeText(draft.Name)
	clean.BirthdayGuestName = SanitizeText(draft.BirthdayGuestName)
	clean.Email = strings.TrimSpace(draft.Email)
	clean.Phone = strings.TrimSpace(draft.Phone)

	if clean.Name == "" {
		return clean, model.Area{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !emailPattern.MatchString(clean.Email) {
		return clean, model.Area{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if digits := countDigits(clean.Phone); digits < MinPhoneDigits || digits > MaxPhoneDigits {
		return clean, model.Area{}, fmt.Errorf("%w: phone must contain %d-%d digits", ErrValidation, MinPhoneDigits, MaxPhoneDigits)
	}
	if clean.Guests < MinGuests || clean.Guests > MaxGuests {
		return clean, model.Area{}, fmt.Errorf("%w: guests must be between %d and %d", ErrValidation, MinGuests, MaxGuests)
	}
	if clean.Children < 0 || clean.Children > MaxChildren {
		return clean, model.Area{}, fmt.Errorf("%w: children must be between 0 and %d", ErrValidation, MaxChildren)
	}
	if clean.Children > clean.Guests {
		return clean, model.Area{}, fmt.Errorf("%w: children cannot exceed guests", ErrValidation)
	}
	if !schedule.InServiceWindow(clean.StartsAt) {
		return clean, model.Area{}, fmt.Errorf("%w: datetime must be a half-hour slot between 18:00 and 22:00", ErrValidation)
	}
	if clean.Birthday && clean.BirthdayGuestName == "" {
		return clean, model.Area{}, fmt.Errorf("%w: birthday guest name is required", ErrValidation)
	}

	area, ok := model.AreaByKey(areas, clean.PreferredArea)
	if !ok {
		return clean, model.Area{}, fmt.Errorf("%w: unknown area %q", ErrValidation, clean.PreferredArea)
	}
	if clean.Smoking && !area.AllowsSmoking {
		return clean, model.Area{}, fmt.Errorf("%w: area %q does not allow smoking", ErrValidation, area.Key)
	}
	if clean.Children > 0 && !area.AllowsChildren {
		return clean, model.Area{}, fmt.Errorf("%w: area %q does not allow children", ErrValidation, area.Key)
	}
	if clean.Guests > area.MaxGuests {
		return clean, model.Area{}, fmt.Errorf("%w: area %q takes at most %d guests", ErrValidation, area.Key, area.MaxGuests)
	}
	return clean, area, nil
}
