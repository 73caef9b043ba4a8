// Package erpformat holds the fixed-format encodings used by the ERP currency-exchange table:
// legacy currency codes, padded rate strings, reciprocal strings and CYYDDD Julian dates.
package erpformat

import (
	"fmt"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
)

// legacyCurrencyCodes maps ISO 4217 codes to the codes the ERP still uses.
var legacyCurrencyCodes = map[string]string{
	"CAD": "CDN",
	"MXN": "MXP",
}

// NormalizeCurrency trims and upper-cases an ISO code, validates it is exactly three letters A-Z
// and applies the legacy remap table.
// Example: " cad " returns "CDN", "eur" returns "EUR", "xx" fails with apperrors.ErrValidation.
func NormalizeCurrency(code string) (string, error) {
	cur := strings.ToUpper(strings.TrimSpace(code))
	if cur == "" {
		return "", fmt.Errorf("%w: currency is required", apperrors.ErrValidation)
	}
	if len(cur) != 3 {
		return "", fmt.Errorf("%w: invalid currency format: %q", apperrors.ErrValidation, code)
	}
	for i := 0; i < len(cur); i++ {
		if cur[i] < 'A' || cur[i] > 'Z' {
			return "", fmt.Errorf("%w: invalid currency format: %q", apperrors.ErrValidation, code)
		}
	}

	if legacy, ok := legacyCurrencyCodes[cur]; ok {
		return legacy, nil
	}
	return cur, nil
}
