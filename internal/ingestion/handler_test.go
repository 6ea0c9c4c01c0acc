package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/aevon-lab/purchase-totals/internal/api/v1"
	httperr "github.com/aevon-lab/purchase-totals/internal/core/errors"
	"github.com/aevon-lab/purchase-totals/internal/core/record"
	"github.com/aevon-lab/purchase-totals/internal/core/storage"
	"github.com/aevon-lab/purchase-totals/internal/core/storage/memory"
	storagemocks "github.com/aevon-lab/purchase-totals/internal/mocks/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDataset = "purchaseRecords"

func newTestRouter(store storage.RecordStore, maxBodySizeMB int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(store, record.NewJSONCodec(), testDataset, maxBodySizeMB).RegisterRoutes(r)
	return r
}

func post(r *gin.Engine, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

// history returns the purchases stored in a customer's row.
func history(t *testing.T, store *memory.Store, customer string) []v1.Purchase {
	t.Helper()
	rows, err := store.RetrieveRecordsAfterCursor(context.Background(), testDataset, 0, 100)
	require.NoError(t, err)
	for _, row := range rows {
		if row.Key == customer {
			purchases, err := v1.DecodePurchases(row.Payload)
			require.NoError(t, err)
			return purchases
		}
	}
	return nil
}

func errorType(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	return errResp.ErrorType
}

func TestIngestHandler_JSONObject(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(store, 1)

	resp := post(r, "/v1/purchases", "application/json",
		`{"customer":"joe","product":"apple","quantity":1,"price":100}`)
	require.Equal(t, http.StatusAccepted, resp.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, "accepted", result["status"])

	require.Equal(t, []v1.Purchase{{Customer: "joe", Product: "apple", Quantity: 1, Price: 100}}, history(t, store, "joe"))
}

func TestIngestHandler_AppendsToCustomerRow(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(store, 1)

	resp := post(r, "/v1/purchases", "application/json", `[
		{"customer":"joe","product":"apple","quantity":1,"price":100},
		{"customer":"bob","product":"apple","quantity":3,"price":30}]`)
	require.Equal(t, http.StatusAccepted, resp.Code)

	resp = post(r, "/v1/purchases/joe", "application/json",
		`{"customer":"joe","product":"pineapple","quantity":10,"price":20}`)
	require.Equal(t, http.StatusAccepted, resp.Code)

	joe := history(t, store, "joe")
	require.Len(t, joe, 2)
	require.Equal(t, "apple", joe[0].Product)
	require.Equal(t, "pineapple", joe[1].Product)
	require.Len(t, history(t, store, "bob"), 1)
}

func TestIngestHandler_Sentences(t *testing.T) {
	store := memory.NewStore()
	r := newTestRouter(store, 1)

	resp := post(r, "/v1/purchases", "text/plain; charset=utf-8",
		"cat bought 3 bottles for $12\n\ncat bought 2 pops for $14\n")
	require.Equal(t, http.StatusAccepted, resp.Code)

	require.Equal(t, []v1.Purchase{
		{Customer: "cat", Product: "bottle", Quantity: 3, Price: 12},
		{Customer: "cat", Product: "pop", Quantity: 2, Price: 14},
	}, history(t, store, "cat"))
}

func TestIngestHandler_RejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		contentType  string
		body         string
		expectedCode int
	}{
		{name: "malformed json", path: "/v1/purchases", contentType: "application/json", body: "not json", expectedCode: http.StatusBadRequest},
		{name: "missing product", path: "/v1/purchases", contentType: "application/json", body: `{"customer":"joe","quantity":1,"price":1}`, expectedCode: http.StatusBadRequest},
		{name: "negative price", path: "/v1/purchases", contentType: "application/json", body: `{"customer":"joe","product":"apple","quantity":1,"price":-5}`, expectedCode: http.StatusBadRequest},
		{name: "fractional price", path: "/v1/purchases", contentType: "application/json", body: `[{"customer":"joe","product":"apple","quantity":1,"price":1.5}]`, expectedCode: http.StatusBadRequest},
		{name: "empty array", path: "/v1/purchases", contentType: "application/json", body: `[]`, expectedCode: http.StatusBadRequest},
		{name: "bad sentence", path: "/v1/purchases", contentType: "text/plain", body: "joe sold 3 apples", expectedCode: http.StatusBadRequest},
		{name: "path customer mismatch", path: "/v1/purchases/bob", contentType: "application/json", body: `{"customer":"joe","product":"apple","quantity":1,"price":1}`, expectedCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Nothing may reach the store.
			mockStore := storagemocks.NewRecordStore(t)
			resp := post(newTestRouter(mockStore, 1), tc.path, tc.contentType, tc.body)

			require.Equal(t, tc.expectedCode, resp.Code)
			require.Equal(t, httperr.HttpInvalidPurchaseError, errorType(t, resp))
		})
	}
}

func TestIngestHandler_BodyTooLarge(t *testing.T) {
	mockStore := storagemocks.NewRecordStore(t)
	r := newTestRouter(mockStore, 1)

	body := `{"customer":"joe","product":"` + strings.Repeat("a", 1024*1024) + `","quantity":1,"price":1}`
	resp := post(r, "/v1/purchases", "application/json", body)

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	require.Equal(t, httperr.HttpPayloadTooLargeError, errorType(t, resp))
}

func TestIngestHandler_StorageError(t *testing.T) {
	mockStore := storagemocks.NewRecordStore(t)
	mockStore.EXPECT().
		UpdateRecords(mock.Anything, testDataset, mock.Anything).
		Return(errors.New("database connection failed")).
		Once()

	resp := post(newTestRouter(mockStore, 1), "/v1/purchases", "application/json",
		`{"customer":"joe","product":"apple","quantity":1,"price":100}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Equal(t, httperr.HttpInternalError, errorType(t, resp))
}

func TestIngestHandler_CorruptStoredRow(t *testing.T) {
	mockStore := storagemocks.NewRecordStore(t)
	mockStore.EXPECT().
		UpdateRecords(mock.Anything, testDataset, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, updates map[string]func([]byte) ([]byte, error)) error {
			require.Len(t, updates, 1)
			_, err := updates["joe"]([]byte("{corrupt"))
			return err
		}).
		Once()

	resp := post(newTestRouter(mockStore, 1), "/v1/purchases", "application/json",
		`{"customer":"joe","product":"apple","quantity":1,"price":100}`)

	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestIngestHandler_BatchIsAllOrNothing(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.SaveRecord(context.Background(), testDataset, "zed", []byte("not json")))
	r := newTestRouter(store, 1)

	resp := post(r, "/v1/purchases", "application/json", `{"customer":"bob","product":"pear","quantity":1,"price":5}`)
	require.Equal(t, http.StatusAccepted, resp.Code)
	before := history(t, store, "bob")
	require.Len(t, before, 1)

	body := `[{"customer":"bob","product":"apple","quantity":1,"price":30},` +
		`{"customer":"zed","product":"pop","quantity":1,"price":1}]`

	resp = post(r, "/v1/purchases", "application/json", body)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Equal(t, before, history(t, store, "bob"))

	// a retried request must not leave a partial write behind either
	resp = post(r, "/v1/purchases", "application/json", body)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Equal(t, before, history(t, store, "bob"))
}
