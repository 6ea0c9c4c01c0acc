package record

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	protoFileName    = "purchases/v1/purchase.proto"
	historyMessage   = "PurchaseHistory"
	purchasesField   = "purchases"
	compileErrPrefix = "compile purchase.proto"
)

//go:embed purchase.proto
var purchaseProto string

// ProtobufCodec reads and writes rows as serialized PurchaseHistory messages.
// Descriptors are compiled once from the embedded .proto; messages are handled
// dynamically so no generated code is needed.
type ProtobufCodec struct {
	history   protoreflect.MessageDescriptor
	purchases protoreflect.FieldDescriptor

	customer     protoreflect.FieldDescriptor
	product      protoreflect.FieldDescriptor
	quantity     protoreflect.FieldDescriptor
	price        protoreflect.FieldDescriptor
	purchaseTime protoreflect.FieldDescriptor
	catalogID    protoreflect.FieldDescriptor
}

// NewProtobufCodec compiles the purchase schema and resolves its field descriptors.
func NewProtobufCodec() (*ProtobufCodec, error) {
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&singleFileResolver{
			fileName: protoFileName,
			content:  purchaseProto,
		}),
		SourceInfoMode: protocompile.SourceInfoNone,
	}

	files, err := compiler.Compile(context.Background(), protoFileName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compileErrPrefix, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no files compiled", compileErrPrefix)
	}

	history := files[0].Messages().ByName(historyMessage)
	if history == nil {
		return nil, fmt.Errorf("%s: message %s not found", compileErrPrefix, historyMessage)
	}
	purchases := history.Fields().ByName(purchasesField)
	if purchases == nil || !purchases.IsList() || purchases.Message() == nil {
		return nil, fmt.Errorf("%s: %s.%s must be a repeated message", compileErrPrefix, historyMessage, purchasesField)
	}

	item := purchases.Message().Fields()
	c := &ProtobufCodec{
		history:      history,
		purchases:    purchases,
		customer:     item.ByName("customer"),
		product:      item.ByName("product"),
		quantity:     item.ByName("quantity"),
		price:        item.ByName("price"),
		purchaseTime: item.ByName("purchase_time"),
		catalogID:    item.ByName("catalog_id"),
	}
	for name, fd := range map[string]protoreflect.FieldDescriptor{
		"customer":      c.customer,
		"product":       c.product,
		"quantity":      c.quantity,
		"price":         c.price,
		"purchase_time": c.purchaseTime,
		"catalog_id":    c.catalogID,
	} {
		if fd == nil {
			return nil, fmt.Errorf("%s: Purchase.%s not found", compileErrPrefix, name)
		}
	}
	return c, nil
}

func (c *ProtobufCodec) Format() Format { return FormatProtobuf }

// Decode parses a serialized PurchaseHistory. Stores never hold a zero-length row, so
// every stored history carries at least one purchase.
func (c *ProtobufCodec) Decode(payload []byte) ([]v1.Purchase, error) {
	msg := dynamicpb.NewMessage(c.history)
	if err := proto.Unmarshal(payload, msg); err != nil {
		return nil, &v1.MalformedRecordError{Reason: "invalid protobuf", Err: err}
	}

	list := msg.Get(c.purchases).List()
	out := make([]v1.Purchase, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i).Message()
		p := v1.Purchase{
			Customer:     m.Get(c.customer).String(),
			Product:      m.Get(c.product).String(),
			Quantity:     m.Get(c.quantity).Int(),
			Price:        m.Get(c.price).Int(),
			PurchaseTime: m.Get(c.purchaseTime).Int(),
			CatalogID:    m.Get(c.catalogID).String(),
		}
		if err := p.Validate(); err != nil {
			return nil, &v1.MalformedRecordError{Reason: fmt.Sprintf("purchase %d", i), Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}

// Encode serializes purchases deterministically as a PurchaseHistory.
func (c *ProtobufCodec) Encode(purchases []v1.Purchase) ([]byte, error) {
	msg := dynamicpb.NewMessage(c.history)
	list := msg.Mutable(c.purchases).List()
	for _, p := range purchases {
		item := list.NewElement()
		m := item.Message()
		m.Set(c.customer, protoreflect.ValueOfString(p.Customer))
		m.Set(c.product, protoreflect.ValueOfString(p.Product))
		m.Set(c.quantity, protoreflect.ValueOfInt64(p.Quantity))
		m.Set(c.price, protoreflect.ValueOfInt64(p.Price))
		m.Set(c.purchaseTime, protoreflect.ValueOfInt64(p.PurchaseTime))
		m.Set(c.catalogID, protoreflect.ValueOfString(p.CatalogID))
		list.Append(item)
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal purchase history: %w", err)
	}
	return data, nil
}

// singleFileResolver serves the embedded proto source to the compiler.
type singleFileResolver struct {
	fileName string
	content  string
}

func (r *singleFileResolver) FindFileByPath(path string) (protocompile.SearchResult, error) {
	if path == r.fileName {
		return protocompile.SearchResult{
			Source: strings.NewReader(r.content),
		}, nil
	}
	return protocompile.SearchResult{}, fmt.Errorf("file not found: %s", path)
}
