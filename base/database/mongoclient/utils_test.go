package mongoclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ptr"
)

func TestMakeBsonM(t *testing.T) {
	type patchableEntry struct {
		Currency    *string `bson:"currency,omitempty"`
		Beneficiary *string `bson:"beneficiary,omitempty"`
		Amount      string  `bson:"amount"`
		Note        string  `bson:"note"`
	}

	patchable := &patchableEntry{}
	patchable.Currency = ptr.String("")
	patchable.Beneficiary = ptr.String("0xabc")
	patchable.Note = "superseded"

	updater, err := MakeBsonM(patchable)

	assert.NoError(t, err)
	assert.Equal(
		t,
		bson.M{
			"currency":    "",
			"beneficiary": "0xabc",
			// amount is a zero value without omitempty, still skipped
			"note": "superseded",
		},
		updater,
	)
}
