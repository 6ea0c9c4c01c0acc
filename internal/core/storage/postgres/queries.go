package postgres

// SQL for input datasets (purchase_records)

const (
	// querySaveRecord creates or replaces one row. row_seq is assigned on first insert
	// and kept on replace, so a paging reader never sees a row twice.
	querySaveRecord = `
		INSERT INTO purchase_records (dataset, row_key, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset, row_key) DO UPDATE SET
			payload    = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
		RETURNING row_seq
	`

	// queryEnsureRecord inserts an empty placeholder so that queryLockRecord always has a
	// row to lock, even for a key's first write.
	queryEnsureRecord = `
		INSERT INTO purchase_records (dataset, row_key, payload, updated_at)
		VALUES ($1, $2, ''::bytea, $3)
		ON CONFLICT (dataset, row_key) DO NOTHING
	`

	queryLockRecord = `
		SELECT payload
		FROM purchase_records
		WHERE dataset = $1 AND row_key = $2
		FOR UPDATE
	`

	queryUpdateRecord = `
		UPDATE purchase_records
		SET payload = $3, updated_at = $4
		WHERE dataset = $1 AND row_key = $2
	`

	// queryRetrieveRecordsAfterCursor pages one dataset in row_seq order.
	// Placeholder rows (empty payload) left by a concurrent first write are skipped.
	queryRetrieveRecordsAfterCursor = `
		SELECT dataset, row_key, payload, row_seq
		FROM purchase_records
		WHERE dataset = $1
		  AND row_seq > $2
		  AND octet_length(payload) > 0
		ORDER BY row_seq ASC
		LIMIT $3
	`

	querySchemaExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)

// SQL for output datasets (aggregate_totals) and the run ledger (aggregation_runs)

const (
	queryInsertRun = `
		INSERT INTO aggregation_runs (
			run_id, job_name, input_dataset, output_dataset, state, fingerprint, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	querySetRunState = `
		UPDATE aggregation_runs
		SET state = $2
		WHERE run_id = $1 AND state = $3
	`

	// queryLockOutput serializes commits to the same output dataset.
	queryLockOutput = `SELECT pg_advisory_xact_lock(hashtext($1))`

	queryRunStateForUpdate = `
		SELECT state
		FROM aggregation_runs
		WHERE run_id = $1
		FOR UPDATE
	`

	// queryNewerCompletedRun reports whether a run submitted after $2 already replaced
	// output dataset $1.
	queryNewerCompletedRun = `
		SELECT EXISTS (
			SELECT 1
			FROM aggregation_runs
			WHERE output_dataset = $1
			  AND state = 'completed'
			  AND submitted_at > $2
		)
	`

	queryDeleteTotals = `DELETE FROM aggregate_totals WHERE dataset = $1`

	queryInsertTotal = `
		INSERT INTO aggregate_totals (dataset, key, total, run_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	queryFinishRun = `
		UPDATE aggregation_runs
		SET state = $2,
			rows_read = $3,
			pairs_emitted = $4,
			keys_written = $5,
			error = $6,
			finished_at = $7
		WHERE run_id = $1
	`

	// queryFailRun never overwrites a terminal state.
	queryFailRun = `
		UPDATE aggregation_runs
		SET state = 'failed',
			rows_read = $2,
			pairs_emitted = $3,
			error = $4,
			finished_at = $5
		WHERE run_id = $1
		  AND state NOT IN ('completed', 'failed')
	`

	queryLookupTotal = `
		SELECT total
		FROM aggregate_totals
		WHERE dataset = $1 AND key = $2
	`

	queryGetRun = `
		SELECT
			run_id, job_name, input_dataset, output_dataset, state, fingerprint,
			rows_read, pairs_emitted, keys_written, error, submitted_at, finished_at
		FROM aggregation_runs
		WHERE run_id = $1
	`
)
