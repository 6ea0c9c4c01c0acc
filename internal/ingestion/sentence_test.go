package ingestion

import (
	"testing"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/stretchr/testify/require"
)

func TestParseSentence(t *testing.T) {
	tests := []struct {
		line     string
		expected v1.Purchase
	}{
		{"bob bought 3 apples for $30", v1.Purchase{Customer: "bob", Product: "apple", Quantity: 3, Price: 30}},
		{"joe bought 1 apple for $100", v1.Purchase{Customer: "joe", Product: "apple", Quantity: 1, Price: 100}},
		{"joe bought 10 pineapples for $20", v1.Purchase{Customer: "joe", Product: "pineapple", Quantity: 10, Price: 20}},
		{"  cat bought 2 pops for $14  ", v1.Purchase{Customer: "cat", Product: "pop", Quantity: 2, Price: 14}},
		// Singular quantity keeps the trailing s.
		{"ann bought 1 glass for $5", v1.Purchase{Customer: "ann", Product: "glass", Quantity: 1, Price: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			p, err := ParseSentence(tc.line)
			require.NoError(t, err)
			require.Equal(t, tc.expected, p)
		})
	}
}

func TestParseSentence_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"bob bought apples for $30",
		"bob bought 3 apples for 30",
		"bob bought -3 apples for $30",
		"bob bought 3 apples for $3.50",
		"bob bought 99999999999999999999 apples for $1",
	} {
		_, err := ParseSentence(line)
		require.Error(t, err, line)
	}
}

func TestParseSentences_ReportsLine(t *testing.T) {
	_, err := ParseSentences("bob bought 3 apples for $30\nnonsense\n")
	require.ErrorContains(t, err, "line 2")

	purchases, err := ParseSentences("\n\n")
	require.NoError(t, err)
	require.Empty(t, purchases)
}
