package ingestion

import (
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// Service appends incoming purchases to the ingestion dataset. Each customer owns one row,
// so a batch job later reads one purchase history per customer.
type Service struct {
	store            storage.RecordStore
	codec            record.Codec
	dataset          string
	maxBodySizeBytes int
}

func NewService(store storage.RecordStore, codec record.Codec, dataset string, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if codec == nil {
		panic("ingestion: codec must not be nil")
	}
	if dataset == "" {
		panic("ingestion: dataset must not be empty")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		codec:            codec,
		dataset:          dataset,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/purchases", s.IngestHandler)
	// Every purchase in the body must belong to the customer named in the path.
	r.POST("/v1/purchases/:customer", s.IngestHandler)
}
