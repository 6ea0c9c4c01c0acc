package projection

import (
	"errors"
	"net/http"
	"strconv"

	httperr "github.com/aevon-lab/purchase-totals/internal/core/errors"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes registers all query API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Plain-text lookup, e.g. /purchases/products/apple -> 130.
	r.GET("/purchases/:route/:key", s.HandleLookupByRoute)

	r.GET("/v1/totals/:dataset/:key", s.HandleLookupTotal)
	r.GET("/v1/runs/:run_id", s.HandleGetRun)
}

// HandleLookupByRoute handles GET /purchases/:route/:key and writes the total as text.
func (s *Service) HandleLookupByRoute(c *gin.Context) {
	total, err := s.LookupByRoute(c.Request.Context(), c.Param("route"), c.Param("key"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.String(http.StatusOK, strconv.FormatInt(total, 10))
}

// HandleLookupTotal handles GET /v1/totals/:dataset/:key
func (s *Service) HandleLookupTotal(c *gin.Context) {
	dataset, key := c.Param("dataset"), c.Param("key")

	total, err := s.LookupTotal(c.Request.Context(), dataset, key)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, TotalResponse{Dataset: dataset, Key: key, Total: total})
}

// HandleGetRun handles GET /v1/runs/:run_id
func (s *Service) HandleGetRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid run id",
			Details:   err.Error(),
		})
		return
	}

	run, err := s.GetRun(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "Run not found",
				Details:   runID.String(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to load run",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownRoute), errors.Is(err, ErrUnknownDataset):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnknownRouteError,
			Message:   "No aggregation serves this path",
			Details:   err.Error(),
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "No total for key",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to look up total",
			Details:   err.Error(),
		})
	}
}
