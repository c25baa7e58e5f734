// Package validate holds the field validators shared by the API
// handlers. Each validator returns the normalized value and an error a
// client can act on; validation always runs before any persistence
// call.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	expiryRe  = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	idRe      = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	jsProtoRe = regexp.MustCompile(`(?i)javascript:`)
	onAttrRe  = regexp.MustCompile(`(?i)on\w+\s*=`)

	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Closed enumerations for card and ledger fields.
var (
	Brands     = []string{"visa", "mastercard", "amex", "discover", "rupay", "jcb", "diners", "unionpay"}
	Currencies = []string{"USD", "EUR", "GBP", "INR", "JPY", "AUD", "CAD", "CHF", "CNY", "SEK", "NZD", "SGD"}
	TxTypes    = []string{
		"grocery", "food", "transport", "entertainment", "shopping",
		"bills", "health", "education", "travel", "subscription",
		"salary", "freelance", "investment", "transfer", "other",
	}
	Frequencies   = []string{"daily", "weekly", "biweekly", "monthly", "quarterly", "yearly"}
	PaymentStates = []string{"pending", "completed", "failed", "cancelled"}
	BudgetPeriods = []string{"daily", "weekly", "monthly", "yearly"}
)

// SanitizeString trims, strips markup and script vectors and clips to
// maxLen. An empty result is the caller's signal that the field was
// effectively missing.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = jsProtoRe.ReplaceAllString(s, "")
	s = onAttrRe.ReplaceAllString(s, "")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// Email normalizes and validates an address against a basic
// local@domain.tld shape.
func Email(email string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(email))
	if len(s) > 254 {
		s = s[:254]
	}
	if s == "" || !emailRe.MatchString(s) {
		return "", errors.New("Please enter a valid email address")
	}
	return s, nil
}

// Password enforces the registration policy: length, mixed case, a
// digit and a symbol from the fixed punctuation set.
func Password(password string) error {
	switch {
	case len(password) < 8:
		return errors.New("Password must be at least 8 characters long")
	case !upperRe.MatchString(password):
		return errors.New("Password must contain at least one uppercase letter")
	case !lowerRe.MatchString(password):
		return errors.New("Password must contain at least one lowercase letter")
	case !digitRe.MatchString(password):
		return errors.New("Password must contain at least one number")
	case !symbolRe.MatchString(password):
		return errors.New(`Password must contain at least one special character (!@#$%^&*...)`)
	}
	return nil
}

// AmountOpts bound a monetary amount.
type AmountOpts struct {
	Min, Max      float64
	AllowNegative bool
}

// DefaultAmountOpts matches the ledger's signed amount range.
func DefaultAmountOpts() AmountOpts {
	return AmountOpts{Min: -1000000, Max: 1000000, AllowNegative: true}
}

// Amount validates a monetary amount and rounds it to cents.
func Amount(amount float64, opts AmountOpts) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errors.New("Amount must be a valid number")
	}
	if !opts.AllowNegative && amount < 0 {
		return 0, errors.New("Amount cannot be negative")
	}
	if amount < opts.Min || amount > opts.Max {
		return 0, fmt.Errorf("Amount must be between %v and %v", opts.Min, opts.Max)
	}
	return math.Round(amount*100) / 100, nil
}

// Date checks the YYYY-MM-DD shape used across the ledger.
func Date(dateStr string) (string, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return "", errors.New("Date is required")
	}
	if !dateRe.MatchString(s) {
		return "", errors.New("Date must be in YYYY-MM-DD format")
	}
	return s, nil
}

// CardExpiry accepts an empty value or MM/YY.
func CardExpiry(expiry string) (string, error) {
	s := strings.TrimSpace(expiry)
	if s == "" {
		return "", nil // Optional field
	}
	if !expiryRe.MatchString(s) {
		return "", errors.New("Expiry must be in MM/YY format")
	}
	return s, nil
}

// Brand checks the card brand against the whitelist, defaulting empty
// input to visa.
func Brand(brand string) (string, error) {
	return enumOrDefault(brand, Brands, "visa", "Card brand", strings.ToLower)
}

// Currency checks the currency code against the whitelist, defaulting
// empty input to USD.
func Currency(currency string) (string, error) {
	return enumOrDefault(currency, Currencies, "USD", "Currency", strings.ToUpper)
}

// TransactionType checks the category against the closed enumeration,
// defaulting empty input to other.
func TransactionType(txType string) (string, error) {
	return enumOrDefault(txType, TxTypes, "other", "Transaction type", strings.ToLower)
}

// Frequency checks a recurring-charge frequency against the whitelist.
func Frequency(freq string) (string, error) {
	return enumOrDefault(freq, Frequencies, "monthly", "Frequency", strings.ToLower)
}

// PaymentStatus checks a payment status against the whitelist.
func PaymentStatus(status string) (string, error) {
	return enumOrDefault(status, PaymentStates, "pending", "Status", strings.ToLower)
}

// BudgetPeriod checks a budget period against the whitelist.
func BudgetPeriod(period string) (string, error) {
	return enumOrDefault(period, BudgetPeriods, "monthly", "Period", strings.ToLower)
}

// LastFour requires exactly four digits.
func LastFour(lastFour string) (string, error) {
	s := strings.TrimSpace(lastFour)
	if len(s) != 4 || strings.Trim(s, "0123456789") != "" {
		return "", errors.New("Please enter valid last 4 digits (numbers only)")
	}
	return s, nil
}

// ID validates an opaque resource identifier (alphanumeric plus
// underscore and hyphen, up to 100 characters).
func ID(id string) (string, error) {
	if id == "" {
		return "", errors.New("ID is required")
	}
	if len(id) > 100 {
		return "", errors.New("ID too long")
	}
	if !idRe.MatchString(id) {
		return "", errors.New("Invalid ID format")
	}
	return id, nil
}

// BudgetCategory sanitizes a free-form budget category name.
func BudgetCategory(category string) (string, error) {
	s := SanitizeString(category, 50)
	if s == "" {
		return "", errors.New("Category is required")
	}
	return s, nil
}

// enumOrDefault lowercases/uppercases the input via norm, applies the
// default when empty, and rejects values outside the whitelist.
func enumOrDefault(val string, allowed []string, def, label string, norm func(string) string) (string, error) {
	s := norm(strings.TrimSpace(val))
	if s == "" {
		return def, nil
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fmt.Errorf("%s must be one of: %s", label, strings.Join(allowed, ", "))
}
