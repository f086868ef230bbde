package model

import (
	"strconv"
	"strings"
)

// SequenceDigits is the width of the sequence number following the prefix
const SequenceDigits = 3

// NumberPrefix ties an invoice number prefix to the document type
type NumberPrefix struct {
	Prefix string
	Type   InvoiceType
}

// NumberPrefixes is checked in order; the empty prefix must stay last
var NumberPrefixes = []NumberPrefix{
	{Prefix: "ZF", Type: InvoiceTypeForeignInvoice},
	{Prefix: "DOB", Type: InvoiceTypeCreditNote},
	{Prefix: "T", Type: InvoiceTypeDebitNote},
	{Prefix: "", Type: InvoiceTypeInvoice},
}

// ParseInvoiceNumber derives the document type and sequence number from an
// invoice number such as "DOB0452024"
func ParseInvoiceNumber(number string) (InvoiceType, int, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", 0, NewNumberingError(number, "empty")
	}

	for _, p := range NumberPrefixes {
		if !strings.HasPrefix(number, p.Prefix) {
			continue
		}

		rest := number[len(p.Prefix):]
		if len(rest) < SequenceDigits {
			return "", 0, NewNumberingError(number, "sequence shorter than "+strconv.Itoa(SequenceDigits)+" digits")
		}

		digits := rest[:SequenceDigits]
		for _, r := range digits {
			if r < '0' || r > '9' {
				return "", 0, NewNumberingError(number, "sequence is not numeric")
			}
		}

		seq, err := strconv.Atoi(digits)
		if err != nil {
			return "", 0, NewNumberingError(number, err.Error())
		}
		return p.Type, seq, nil
	}

	return "", 0, NewNumberingError(number, "no matching prefix")
}
