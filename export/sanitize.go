package export

import (
	"fmt"
	"strings"
)

// The PDF renderer only carries the built-in Latin fonts, so free text is
// transliterated to ASCII and length-capped before it reaches the page.

var translitTable = map[rune]string{
	'á': "a", 'é': "e", 'í': "i", 'ó': "o", 'ú': "u", 'ü': "u", 'ñ': "n",
	'Á': "A", 'É': "E", 'Í': "I", 'Ó': "O", 'Ú': "U", 'Ü': "U", 'Ñ': "N",
	'à': "a", 'è': "e", 'ì': "i", 'ò': "o", 'ù': "u",
	'À': "A", 'È': "E", 'Ì': "I", 'Ò': "O", 'Ù': "U",
	'â': "a", 'ê': "e", 'î': "i", 'ô': "o", 'û': "u",
	'ä': "a", 'ë': "e", 'ï': "i", 'ö': "o", 'ÿ': "y",
	'ç': "c", 'Ç': "C",
	'“': "\"", '”': "\"", '‘': "'", '’': "'",
	'–': "-", '—': "-", '…': "...",
	'°': "deg", '€': "EUR", '£': "GBP", '¥': "JPY",
}

// sanitizeText transliterates accented characters, drops everything outside
// printable ASCII, and caps the result at maxLen runes (0 means no cap).
func sanitizeText(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := translitTable[r]; ok {
			b.WriteString(repl)
			continue
		}
		if r == '\n' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		if maxLen <= 3 {
			return out[:maxLen]
		}
		out = out[:maxLen-3] + "..."
	}
	return out
}

// formatCurrency renders a money amount as "$1,234,567.89".
func formatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := fmt.Sprintf("$%s.%02d", strings.Join(parts, ","), cents)
	if neg {
		return "-" + out
	}
	return out
}

// formatPercent renders a 0-100 gauge with one decimal.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// statusLabel maps an employee active flag to its display label.
func statusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// effectiveRowCap resolves the employee row cap for a document format.
func effectiveRowCap(defaultCap int, opts Options) int {
	if opts.RowCapOverride > 0 {
		return opts.RowCapOverride
	}
	return defaultCap
}

// truncateNote builds the trailing note shown when a table was cut short.
func truncateNote(shown, total int) string {
	return fmt.Sprintf("Showing first %d of %d employees (%d more not shown). Export to Excel or CSV for the full list.",
		shown, total, total-shown)
}
