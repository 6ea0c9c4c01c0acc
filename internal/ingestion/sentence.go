package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
)

// purchaseSentence matches "<customer> bought <qty> <product> for $<price>".
var purchaseSentence = regexp.MustCompile(`^(\S+)\s+bought\s+(\d+)\s+(\S+)\s+for\s+\$(\d+)$`)

// ParseSentence parses one plain-text purchase line such as "bob bought 3 apples for $30".
// The price is the amount paid for the whole line. A trailing "s" on the product is dropped
// when more than one unit was bought, so "3 apples" and "1 apple" share a key.
func ParseSentence(line string) (v1.Purchase, error) {
	m := purchaseSentence.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return v1.Purchase{}, fmt.Errorf("unrecognised purchase sentence %q", line)
	}

	quantity, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return v1.Purchase{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return v1.Purchase{}, fmt.Errorf("price: %w", err)
	}

	product := m[3]
	if quantity > 1 && len(product) > 1 {
		product = strings.TrimSuffix(product, "s")
	}

	p := v1.Purchase{
		Customer: m[1],
		Product:  product,
		Quantity: quantity,
		Price:    price,
	}
	if err := p.Validate(); err != nil {
		return v1.Purchase{}, err
	}
	return p, nil
}

// ParseSentences parses one purchase per non-blank line.
func ParseSentences(body string) ([]v1.Purchase, error) {
	var purchases []v1.Purchase
	for i, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p, err := ParseSentence(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}
