package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Purchase is one item bought by one customer.
// Values are immutable once decoded; Price is in the smallest currency unit.
type Purchase struct {
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`

	// PurchaseTime is epoch millis as stamped by the producer. Carried, never aggregated.
	PurchaseTime int64 `json:"purchaseTime,omitempty"`

	// CatalogID is an optional product catalog reference.
	CatalogID string `json:"catalogId,omitempty"`
}

// Validate ensures the purchase has all required attributes.
func (p *Purchase) Validate() error {
	if p.Customer == "" {
		return fmt.Errorf("customer is required")
	}

	if p.Product == "" {
		return fmt.Errorf("product is required")
	}

	if p.Quantity < 0 {
		return fmt.Errorf("quantity must be >= 0, got %d", p.Quantity)
	}

	if p.Price < 0 {
		return fmt.Errorf("price must be >= 0, got %d", p.Price)
	}

	return nil
}

// RawRecord is one stored row of an input dataset.
// A row holds a customer's purchase history in some encoding (see internal/core/record).
type RawRecord struct {
	Dataset string
	Key     string
	Payload []byte

	// Seq is a monotonic sequence assigned by the store. Used for paging only.
	Seq int64
}

// wirePurchase is the JSON shape on the wire. Numbers are kept as json.Number so that
// fractional or out-of-range amounts can be rejected rather than truncated.
type wirePurchase struct {
	Customer     string      `json:"customer"`
	Product      string      `json:"product"`
	Quantity     json.Number `json:"quantity"`
	Price        json.Number `json:"price"`
	PurchaseTime json.Number `json:"purchaseTime"`
	CatalogID    string      `json:"catalogId"`
}

// DecodePurchases parses a JSON array of purchase objects.
// An empty array is valid and yields no purchases. Anything else that does not decode
// into valid purchases returns a *MalformedRecordError.
func DecodePurchases(data []byte) ([]Purchase, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &MalformedRecordError{Reason: "empty payload"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var wire []wirePurchase
	if err := dec.Decode(&wire); err != nil {
		return nil, &MalformedRecordError{Reason: "invalid json", Err: err}
	}
	if dec.More() {
		return nil, &MalformedRecordError{Reason: "trailing data after purchase list"}
	}

	purchases := make([]Purchase, 0, len(wire))
	for i, w := range wire {
		p, err := w.toPurchase()
		if err != nil {
			return nil, &MalformedRecordError{Reason: fmt.Sprintf("purchase %d", i), Err: err}
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

// DecodePurchase parses a single JSON purchase object.
func DecodePurchase(data []byte) (Purchase, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var w wirePurchase
	if err := dec.Decode(&w); err != nil {
		return Purchase{}, &MalformedRecordError{Reason: "invalid json", Err: err}
	}
	p, err := w.toPurchase()
	if err != nil {
		return Purchase{}, &MalformedRecordError{Reason: "invalid purchase", Err: err}
	}
	return p, nil
}

// EncodePurchases renders purchases in the JSON row format read by DecodePurchases.
func EncodePurchases(purchases []Purchase) ([]byte, error) {
	if purchases == nil {
		purchases = []Purchase{}
	}
	return json.Marshal(purchases)
}

func (w wirePurchase) toPurchase() (Purchase, error) {
	quantity, err := parseWholeNumber("quantity", w.Quantity)
	if err != nil {
		return Purchase{}, err
	}
	price, err := parseWholeNumber("price", w.Price)
	if err != nil {
		return Purchase{}, err
	}
	purchaseTime, err := parseWholeNumber("purchaseTime", w.PurchaseTime)
	if err != nil {
		return Purchase{}, err
	}

	p := Purchase{
		Customer:     w.Customer,
		Product:      w.Product,
		Quantity:     quantity,
		Price:        price,
		PurchaseTime: purchaseTime,
		CatalogID:    w.CatalogID,
	}
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}
	return p, nil
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// parseWholeNumber converts a JSON number to int64 through an exact decimal so that
// "12.5" or "1e30" are rejected instead of rounded. A missing number is zero.
func parseWholeNumber(field string, n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%s must be a whole number, got %s", field, n)
	}
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0, fmt.Errorf("%s out of range: %s", field, n)
	}
	return d.IntPart(), nil
}
