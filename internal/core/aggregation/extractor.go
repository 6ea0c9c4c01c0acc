package aggregation

import (
	"errors"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
)

// Decoder turns one stored row into its purchases. record.Codec satisfies it.
type Decoder interface {
	Decode(payload []byte) ([]v1.Purchase, error)
}

// Extractor is the map stage: one (key, value) pair per decoded purchase.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	decoder Decoder
	key     KeySelector
	value   ValueSelector
}

// NewExtractor binds a decoder and the selectors of def.
func NewExtractor(def JobDefinition, decoder Decoder) (*Extractor, error) {
	key, err := KeySelectorFor(def.Dimension)
	if err != nil {
		return nil, err
	}
	value, err := ValueSelectorFor(def.Value)
	if err != nil {
		return nil, err
	}
	return &Extractor{decoder: decoder, key: key, value: value}, nil
}

// Extract decodes row and calls emit once per purchase. A row that cannot be decoded
// returns a *v1.MalformedRecordError naming the row; nothing is emitted for it.
func (e *Extractor) Extract(row *v1.RawRecord, emit func(Pair)) (int, error) {
	purchases, err := e.decoder.Decode(row.Payload)
	if err != nil {
		return 0, malformedRow(row, err)
	}
	for _, p := range purchases {
		emit(Pair{Key: e.key(p), Value: e.value(p)})
	}
	return len(purchases), nil
}

func malformedRow(row *v1.RawRecord, err error) error {
	var mre *v1.MalformedRecordError
	if errors.As(err, &mre) {
		out := *mre
		out.Dataset = row.Dataset
		out.RowKey = row.Key
		return &out
	}
	return &v1.MalformedRecordError{Dataset: row.Dataset, RowKey: row.Key, Reason: "decode", Err: err}
}
