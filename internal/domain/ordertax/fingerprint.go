package ordertax

import (
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/crypto/blake2b"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fingerprintLine struct {
	ID        string `json:"i"`
	Quantity  int    `json:"q"`
	UnitPrice string `json:"p"`
	Modifiers string `json:"m"`
}

// Fingerprint is a stable hash of the order lines used as part of the cache
// key. It is order sensitive. Decimal values are normalised so 150 and 150.00
// hash the same.
func Fingerprint(items []OrderItemForTax) string {
	lines := make([]fingerprintLine, 0, len(items))
	for _, item := range items {
		line := fingerprintLine{
			ID:        item.MenuItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		}
		if item.ModifiersPrice != nil {
			line.Modifiers = item.ModifiersPrice.String()
		}
		lines = append(lines, line)
	}

	// marshalling a slice of plain structs cannot fail
	raw, _ := json.Marshal(lines)
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
