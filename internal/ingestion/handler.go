package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	httperr "github.com/aevon-lab/purchase-totals/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed   = "Failed to read request body"
	msgInvalidBody      = "Invalid purchase body"
	msgCustomerMismatch = "Purchase customer does not match path"
	msgPersistFailed    = "Failed to persist purchases"
	msgEmptyBody        = "No purchases in request body"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler handles HTTP POST requests for purchase ingestion.
func (s *Service) IngestHandler(c *gin.Context) {
	purchases, payloadSize, err := s.parsePurchases(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if customer := c.Param("customer"); customer != "" {
		for _, p := range purchases {
			if p.Customer != customer {
				writeError(c, &ingestionError{
					statusCode: http.StatusBadRequest,
					errorType:  httperr.HttpInvalidPurchaseError,
					message:    msgCustomerMismatch,
					details:    map[string]string{"path": customer, "body": p.Customer},
				})
				return
			}
		}
	}

	slog.Info("[Ingestion] Received purchases",
		"dataset", s.dataset,
		"purchases", len(purchases),
		"payload_size", payloadSize)

	if err := s.appendPurchases(c.Request.Context(), purchases); err != nil {
		writeError(c, err)
		return
	}

	// Rows are in the store. The next batch run picks them up.
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "purchases": len(purchases)})
}

// parsePurchases reads the size-limited body and decodes it according to its content type:
// text/plain holds purchase sentences, anything else a JSON object or array.
func (s *Service) parsePurchases(c *gin.Context) ([]v1.Purchase, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	purchases, err := decodeBody(c.ContentType(), bodyBytes)
	if err != nil {
		slog.Warn("[Ingestion] Invalid purchase body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidPurchaseError,
			message:    msgInvalidBody,
			details:    err.Error(),
		}
	}
	if len(purchases) == 0 {
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidPurchaseError,
			message:    msgEmptyBody,
		}
	}
	return purchases, len(bodyBytes), nil
}

func decodeBody(contentType string, body []byte) ([]v1.Purchase, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "text/plain" {
		return ParseSentences(string(body))
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	if trimmed[0] == '[' {
		return v1.DecodePurchases(trimmed)
	}
	p, err := v1.DecodePurchase(trimmed)
	if err != nil {
		return nil, err
	}
	return []v1.Purchase{p}, nil
}

// appendPurchases adds purchases to each customer's row in a single store transaction.
// Either every customer's row is updated or none is.
func (s *Service) appendPurchases(ctx context.Context, purchases []v1.Purchase) *ingestionError {
	byCustomer := make(map[string][]v1.Purchase)
	for _, p := range purchases {
		byCustomer[p.Customer] = append(byCustomer[p.Customer], p)
	}

	updates := make(map[string]func([]byte) ([]byte, error), len(byCustomer))
	for customer, added := range byCustomer {
		updates[customer] = func(current []byte) ([]byte, error) {
			var history []v1.Purchase
			if len(current) > 0 {
				decoded, err := s.codec.Decode(current)
				if err != nil {
					return nil, fmt.Errorf("customer %s: %w", customer, err)
				}
				history = decoded
			}
			return s.codec.Encode(append(history, added...))
		}
	}

	if err := s.store.UpdateRecords(ctx, s.dataset, updates); err != nil {
		slog.Error("[Ingestion] Failed to persist purchases",
			"error", err,
			"dataset", s.dataset,
			"customers", len(updates))
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}
	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
