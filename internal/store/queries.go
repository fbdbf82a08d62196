package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Run queries.
const (
	queryCreateRun = `
		INSERT INTO recommendation_runs (id, started_at)
		VALUES (@id, @started_at)`

	queryCompleteRun = `
		UPDATE recommendation_runs SET
			finished_at = @finished_at,
			products = @products,
			alerts_fired = @alerts_fired
		WHERE id = @id`

	queryGetRun = `
		SELECT id, started_at, COALESCE(finished_at, started_at), products, alerts_fired
		FROM recommendation_runs
		WHERE id = $1`

	queryLatestRun = `
		SELECT id, started_at, COALESCE(finished_at, started_at), products, alerts_fired
		FROM recommendation_runs
		WHERE finished_at IS NOT NULL
		ORDER BY finished_at DESC
		LIMIT 1`

	queryListRuns = `
		SELECT id, started_at, COALESCE(finished_at, started_at), products, alerts_fired
		FROM recommendation_runs
		ORDER BY started_at DESC
		LIMIT $1`
)

// Recommendation queries.
const (
	queryInsertRecommendation = `
		INSERT INTO recommendations (
			run_id, product_id, name, current_price, recommended_price,
			unit_cost, competitor_median_price, inventory_on_hand,
			reorder_point, expected_profit_delta, notes
		) VALUES (
			@run_id, @product_id, @name, @current_price, @recommended_price,
			@unit_cost, @competitor_median_price, @inventory_on_hand,
			@reorder_point, @expected_profit_delta, @notes
		)`

	queryListRecommendations = `
		SELECT product_id, COALESCE(name, ''), current_price, recommended_price,
			unit_cost, competitor_median_price, inventory_on_hand,
			reorder_point, expected_profit_delta, notes
		FROM recommendations
		WHERE run_id = $1
		ORDER BY expected_profit_delta DESC, product_id`
)

// Alert history queries.
const (
	queryInsertAlertRecord = `
		INSERT INTO alert_history (
			run_id, product_id, reason, succeeded, error_text, sent_at
		) VALUES (
			@run_id, @product_id, @reason, @succeeded, @error_text, @sent_at
		)
		RETURNING id`

	queryListAlertHistory = `
		SELECT id, run_id, product_id, reason, succeeded, COALESCE(error_text, ''), sent_at
		FROM alert_history
		ORDER BY sent_at DESC
		LIMIT $1`
)
