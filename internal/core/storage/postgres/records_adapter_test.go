package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestNewAdapter_ValidatesSchema(t *testing.T) {
	t.Run("all tables present", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		for _, table := range []string{"purchase_records", "aggregation_runs", "aggregate_totals"} {
			mock.ExpectQuery(regexp.QuoteMeta(querySchemaExists)).
				WithArgs(table).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		}
		mock.ExpectPrepare(regexp.QuoteMeta(querySaveRecord))
		mock.ExpectPrepare(regexp.QuoteMeta(queryRetrieveRecordsAfterCursor))

		adapter, err := NewAdapter(db)
		require.NoError(t, err)
		require.Same(t, db, adapter.DB())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(querySchemaExists)).
			WithArgs("purchase_records").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err = NewAdapter(db)
		require.Error(t, err)
		require.ErrorContains(t, err, "purchase_records table does not exist")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_SaveRecord(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		mockResult func(mock sqlmock.Sqlmock)
		assertions func(t *testing.T, err error)
	}{
		{
			name:    "success",
			payload: []byte(`[{"customer":"joe","product":"apple","quantity":1,"price":30}]`),
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveRecord)).
					WithArgs("purchaseRecords", "joe", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"row_seq"}).AddRow(int64(7)))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:    "database error is wrapped",
			payload: []byte(`[]`),
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(querySaveRecord)).
					WithArgs("purchaseRecords", "joe", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnError(errors.New("connection reset"))
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "failed to save record")
			},
		},
		{
			name:    "empty payload short-circuits",
			payload: nil,
			assertions: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "empty payload")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			if tc.mockResult != nil {
				tc.mockResult(mock)
			}

			err := adapter.SaveRecord(context.Background(), "purchaseRecords", "joe", tc.payload)
			tc.assertions(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_UpdateRecord(t *testing.T) {
	t.Run("first write sees nil", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		next := []byte(`[{"customer":"joe","product":"apple","quantity":1,"price":30}]`)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
			WithArgs("purchaseRecords", "joe", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
			WithArgs("purchaseRecords", "joe").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{}))
		mock.ExpectExec(regexp.QuoteMeta(queryUpdateRecord)).
			WithArgs("purchaseRecords", "joe", next, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var seen []byte
		called := false
		err := adapter.UpdateRecord(context.Background(), "purchaseRecords", "joe", func(current []byte) ([]byte, error) {
			called = true
			seen = current
			return next, nil
		})
		require.NoError(t, err)
		require.True(t, called)
		require.Nil(t, seen)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing row is passed through", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		existing := []byte(`[{"customer":"joe","product":"apple","quantity":1,"price":30}]`)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
			WithArgs("purchaseRecords", "joe", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
			WithArgs("purchaseRecords", "joe").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(existing))
		mock.ExpectExec(regexp.QuoteMeta(queryUpdateRecord)).
			WithArgs("purchaseRecords", "joe", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := adapter.UpdateRecord(context.Background(), "purchaseRecords", "joe", func(current []byte) ([]byte, error) {
			require.Equal(t, existing, current)
			return append([]byte{}, current...), nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls back", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		cbErr := errors.New("invalid purchase")

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
			WithArgs("purchaseRecords", "joe", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
			WithArgs("purchaseRecords", "joe").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{}))
		mock.ExpectRollback()

		err := adapter.UpdateRecord(context.Background(), "purchaseRecords", "joe", func([]byte) ([]byte, error) {
			return nil, cbErr
		})
		require.ErrorIs(t, err, cbErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_UpdateRecords(t *testing.T) {
	t.Run("all rows commit together", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		mock.ExpectBegin()
		for _, key := range []string{"bob", "zed"} {
			mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
				WithArgs("purchaseRecords", key, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
				WithArgs("purchaseRecords", key).
				WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{}))
			mock.ExpectExec(regexp.QuoteMeta(queryUpdateRecord)).
				WithArgs("purchaseRecords", key, []byte(key), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		err := adapter.UpdateRecords(context.Background(), "purchaseRecords", map[string]func([]byte) ([]byte, error){
			"zed": func([]byte) ([]byte, error) { return []byte("zed"), nil },
			"bob": func([]byte) ([]byte, error) { return []byte("bob"), nil },
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("later failure rolls back earlier rows", func(t *testing.T) {
		adapter, mock, db := newMockAdapter(t)
		defer db.Close()

		cbErr := errors.New("corrupt row")

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
			WithArgs("purchaseRecords", "bob", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
			WithArgs("purchaseRecords", "bob").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("1")))
		mock.ExpectExec(regexp.QuoteMeta(queryUpdateRecord)).
			WithArgs("purchaseRecords", "bob", []byte("12"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(queryEnsureRecord)).
			WithArgs("purchaseRecords", "zed", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(queryLockRecord)).
			WithArgs("purchaseRecords", "zed").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("not json")))
		mock.ExpectRollback()

		err := adapter.UpdateRecords(context.Background(), "purchaseRecords", map[string]func([]byte) ([]byte, error){
			"bob": func(current []byte) ([]byte, error) { return append(current, '2'), nil },
			"zed": func([]byte) ([]byte, error) { return nil, cbErr },
		})
		require.ErrorIs(t, err, cbErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdapter_RetrieveRecordsAfterCursor(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryRetrieveRecordsAfterCursor)).
		WithArgs("purchaseRecords", int64(100), 2).
		WillReturnRows(sqlmock.NewRows(recordRowColumns()).
			AddRow("purchaseRecords", "joe", []byte(`[]`), int64(101)).
			AddRow("purchaseRecords", "bob", []byte(`[{"customer":"bob","product":"cat","quantity":2,"price":12}]`), int64(105)),
		).RowsWillBeClosed()

	records, err := adapter.RetrieveRecordsAfterCursor(context.Background(), "purchaseRecords", 100, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "joe", records[0].Key)
	require.Equal(t, int64(101), records[0].Seq)
	require.Equal(t, "bob", records[1].Key)
	require.Equal(t, "purchaseRecords", records[1].Dataset)
	require.Equal(t, int64(105), records[1].Seq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(querySaveRecord)).WillBeClosed()
	stmtSave, err := db.Prepare(querySaveRecord)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryRetrieveRecordsAfterCursor)).WillBeClosed()
	stmtRetrieve, err := db.Prepare(queryRetrieveRecordsAfterCursor)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:                 db,
		stmtSaveRecord:     stmtSave,
		stmtRetrieveCursor: stmtRetrieve,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:                 db,
		stmtSaveRecord:     mustPrepareStmt(t, db, mock, querySaveRecord),
		stmtRetrieveCursor: mustPrepareStmt(t, db, mock, queryRetrieveRecordsAfterCursor),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func recordRowColumns() []string {
	return []string{"dataset", "row_key", "payload", "row_seq"}
}
