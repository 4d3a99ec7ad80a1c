package davclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	govcard "github.com/emersion/go-vcard"
)

// ErrInvalidVCard is returned by ValidateVCard.
var ErrInvalidVCard = errors.New("invalid vCard")

// CleanVCard drops carriage returns and trims surrounding whitespace.
func CleanVCard(data []byte) []byte {
	return bytes.TrimSpace(bytes.ReplaceAll(data, []byte("\r"), nil))
}

// ValidateVCard checks that data holds at least one vCard and that every
// card declares a VERSION.
func ValidateVCard(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidVCard)
	}

	// the decoder expects CRLF line endings
	normalized := bytes.ReplaceAll(bytes.TrimSpace(data), []byte("\r\n"), []byte("\n"))
	normalized = append(bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n")), '\r', '\n')

	dec := govcard.NewDecoder(bytes.NewReader(normalized))
	count := 0
	for {
		card, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidVCard, err)
		}
		count++
		if card.Value(govcard.FieldVersion) == "" {
			return fmt.Errorf("%w: card %d has no VERSION", ErrInvalidVCard, count)
		}
	}
	if count == 0 {
		return fmt.Errorf("%w: no card found", ErrInvalidVCard)
	}
	return nil
}
