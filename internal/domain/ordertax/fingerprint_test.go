package ordertax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	a := []OrderItemForTax{item("paneer", 2, "150.00"), itemWithModifiers("naan", 3, "40", "10.5")}
	same := []OrderItemForTax{item("paneer", 2, "150"), itemWithModifiers("naan", 3, "40.00", "10.50")}

	assert.Len(t, Fingerprint(a), 64)
	assert.Equal(t, Fingerprint(a), Fingerprint(same), "normalised decimals fingerprint identically")

	reordered := []OrderItemForTax{a[1], a[0]}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(reordered), "fingerprint is order sensitive")

	changedQty := []OrderItemForTax{item("paneer", 3, "150.00"), a[1]}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(changedQty))

	changedModifier := []OrderItemForTax{a[0], itemWithModifiers("naan", 3, "40", "11")}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(changedModifier))

	assert.Equal(t, Fingerprint(nil), Fingerprint([]OrderItemForTax{}))
}
