package record

import (
	"fmt"
	"sort"
	"sync"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
)

// Format identifies how a dataset encodes its rows.
type Format string

const (
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// Codec converts between a stored row and the purchases it holds.
// Decode must return a *v1.MalformedRecordError for rows that cannot be parsed.
type Codec interface {
	Decode(payload []byte) ([]v1.Purchase, error)
	Encode(purchases []v1.Purchase) ([]byte, error)
	Format() Format
}

// Registry manages codec implementations by format.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Format]Codec
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[Format]Codec)}
}

// NewDefaultRegistry registers the JSON and protobuf codecs.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	r.Register(NewJSONCodec())

	pb, err := NewProtobufCodec()
	if err != nil {
		return nil, fmt.Errorf("protobuf codec: %w", err)
	}
	r.Register(pb)
	return r, nil
}

// Register adds or replaces the codec for its format.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.Format()] = c
}

// Get returns the codec for format. An empty format means JSON.
func (r *Registry) Get(format Format) (Codec, error) {
	if format == "" {
		format = FormatJSON
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[format]
	if !ok {
		return nil, fmt.Errorf("unsupported record format: %s", format)
	}
	return c, nil
}

// SupportedFormats returns the registered formats in sorted order.
func (r *Registry) SupportedFormats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.codecs))
	for f := range r.codecs {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// jsonCodec reads and writes the JSON array-of-objects row format.
type jsonCodec struct{}

// NewJSONCodec returns the codec for JSON rows.
func NewJSONCodec() Codec {
	return jsonCodec{}
}

func (jsonCodec) Decode(payload []byte) ([]v1.Purchase, error) {
	return v1.DecodePurchases(payload)
}

func (jsonCodec) Encode(purchases []v1.Purchase) ([]byte, error) {
	return v1.EncodePurchases(purchases)
}

func (jsonCodec) Format() Format { return FormatJSON }
