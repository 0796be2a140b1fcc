package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a monetary amount as Indian-system words for the
// printable invoice, e.g. 123456.50 -> "Indian Rupees One Lakh Twenty-Three
// Thousand Four Hundred Fifty-Six And Fifty Paisa Only".
func AmountInWords(amount decimal.Decimal) string {
	rounded := amount.Abs().Round(2)
	rupees := rounded.IntPart()
	paisa := rounded.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	if rupees == 0 && paisa == 0 {
		return "Zero Rupees Only"
	}

	var sb strings.Builder
	sb.WriteString("Indian Rupees ")
	sb.WriteString(numberWords(rupees))
	if paisa > 0 {
		sb.WriteString(" And ")
		sb.WriteString(numberWords(paisa))
		sb.WriteString(" Paisa")
	}
	sb.WriteString(" Only")
	return sb.String()
}

// numberWords spells a non-negative integer with Indian grouping:
// crore (10^7), lakh (10^5), thousand, hundred.
func numberWords(n int64) string {
	switch {
	case n == 0:
		return "Zero"
	case n < 20:
		return onesWords[n]
	case n < 100:
		word := tensWords[n/10]
		if n%10 != 0 {
			word += "-" + onesWords[n%10]
		}
		return word
	case n < 1000:
		return join(onesWords[n/100]+" Hundred", numberWords(n%100))
	case n < 100000:
		return join(numberWords(n/1000)+" Thousand", numberWords(n%1000))
	case n < 10000000:
		return join(numberWords(n/100000)+" Lakh", numberWords(n%100000))
	default:
		return join(numberWords(n/10000000)+" Crore", numberWords(n%10000000))
	}
}

func join(head string, tail string) string {
	if tail == "Zero" || tail == "" {
		return head
	}
	return head + " " + tail
}
