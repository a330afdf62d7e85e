// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Monitored stocks with per-stock alert thresholds
	CREATE TABLE IF NOT EXISTS stocks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		company_name TEXT NOT NULL,
		threshold REAL NOT NULL,
		is_active INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Append-only price observations; no same-date dedupe, backfills allowed
	CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stock_id INTEGER NOT NULL REFERENCES stocks(id) ON DELETE CASCADE,
		date DATETIME NOT NULL,
		close_price REAL NOT NULL,
		previous_close REAL,
		percentage_change REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_price_history_stock_date
		ON price_history(stock_id, date);

	-- Alert ledger; the UNIQUE(stock_id, trigger_day) index is the
	-- authoritative one-alert-per-stock-per-day guarantee
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stock_id INTEGER NOT NULL REFERENCES stocks(id) ON DELETE CASCADE,
		triggered_at DATETIME NOT NULL,
		trigger_day TEXT NOT NULL,
		percentage_change REAL NOT NULL,
		threshold_at_time REAL NOT NULL,
		price_before REAL,
		price_after REAL,
		delivered INTEGER DEFAULT 0,
		channel TEXT DEFAULT 'none',
		delivery_error TEXT,
		UNIQUE(stock_id, trigger_day)
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_triggered_at ON alerts(triggered_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_delivered ON alerts(delivered);

	-- Archived news; NULL urls are exempt from dedupe (SQLite treats NULLs
	-- as distinct in unique indexes)
	CREATE TABLE IF NOT EXISTS news_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stock_id INTEGER NOT NULL REFERENCES stocks(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		url TEXT,
		image_url TEXT,
		source TEXT,
		published_at DATETIME,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		photographer_name TEXT,
		photographer_username TEXT,
		photographer_url TEXT,
		download_location TEXT,
		UNIQUE(stock_id, url)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =========================================================================
// Stocks
// =========================================================================

// CreateStock registers a new stock for monitoring. Symbols are normalized
// to upper case.
func (s *SQLiteStore) CreateStock(ctx context.Context, symbol, name string, threshold float64) (*models.Stock, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.NewValidationError("symbol", symbol, "must not be empty")
	}
	if name == "" {
		return nil, apperrors.NewValidationError("company_name", name, "must not be empty")
	}
	if threshold <= 0 {
		return nil, apperrors.ErrInvalidThreshold
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stocks (symbol, company_name, threshold, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, 1, ?, ?)`,
		symbol, name, threshold, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.NewStoreError("create stock", symbol, fmt.Errorf("symbol already registered"))
		}
		return nil, apperrors.NewStoreError("create stock", symbol, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperrors.NewStoreError("create stock", symbol, err)
	}

	return &models.Stock{
		ID:        id,
		Symbol:    symbol,
		Name:      name,
		Threshold: threshold,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetStock returns a stock by symbol, or ErrStockNotFound.
func (s *SQLiteStore) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, symbol, company_name, threshold, is_active, created_at, updated_at
		 FROM stocks WHERE symbol = ?`,
		normalizeSymbol(symbol),
	)
	return scanStock(row)
}

// ListStocks returns all stocks ordered by symbol.
func (s *SQLiteStore) ListStocks(ctx context.Context, activeOnly bool) ([]models.Stock, error) {
	query := `SELECT id, symbol, company_name, threshold, is_active, created_at, updated_at
		FROM stocks`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY symbol`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError("list stocks", "", err)
	}
	defer rows.Close()

	var stocks []models.Stock
	for rows.Next() {
		var st models.Stock
		if err := rows.Scan(&st.ID, &st.Symbol, &st.Name, &st.Threshold, &st.Active, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, apperrors.NewStoreError("list stocks", "", err)
		}
		stocks = append(stocks, st)
	}
	return stocks, rows.Err()
}

// UpdateStock applies the non-nil fields of upd to the stock. Deactivation is
// preferred over deletion so that history is preserved.
func (s *SQLiteStore) UpdateStock(ctx context.Context, symbol string, upd models.StockUpdate) (*models.Stock, error) {
	if upd.Threshold != nil && *upd.Threshold <= 0 {
		return nil, apperrors.ErrInvalidThreshold
	}

	var sets []string
	var args []interface{}
	if upd.Name != nil {
		sets = append(sets, "company_name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Threshold != nil {
		sets = append(sets, "threshold = ?")
		args = append(args, *upd.Threshold)
	}
	if upd.Active != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.Active)
	}
	if len(sets) == 0 {
		return s.GetStock(ctx, symbol)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), normalizeSymbol(symbol))

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE stocks SET %s WHERE symbol = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, apperrors.NewStoreError("update stock", symbol, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.ErrStockNotFound
	}
	return s.GetStock(ctx, symbol)
}

// DeleteStock removes a stock and, via cascade, its prices, alerts and news.
func (s *SQLiteStore) DeleteStock(ctx context.Context, symbol string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stocks WHERE symbol = ?`, normalizeSymbol(symbol))
	if err != nil {
		return apperrors.NewStoreError("delete stock", symbol, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrStockNotFound
	}
	return nil
}

// =========================================================================
// Price series
// =========================================================================

// AddPrice appends a price observation, deriving previous close and percentage
// change from the chronologically latest stored observation (last inserted
// wins on same-date ties). The change is left nil when there is no previous
// close or it is exactly zero.
func (s *SQLiteStore) AddPrice(ctx context.Context, symbol string, date time.Time, closePrice float64) (*models.PriceObservation, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if closePrice <= 0 {
		return nil, apperrors.NewValidationError("close_price", closePrice, "must be positive")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var previous sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT close_price FROM price_history
		 WHERE stock_id = ? ORDER BY date DESC, id DESC LIMIT 1`,
		stock.ID,
	).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return nil, apperrors.NewStoreError("add price", symbol, err)
	}

	obs := &models.PriceObservation{
		StockID:    stock.ID,
		Date:       date.UTC(),
		ClosePrice: closePrice,
		CreatedAt:  time.Now().UTC(),
	}
	if previous.Valid {
		prev := previous.Float64
		obs.PreviousClose = &prev
		if prev != 0 {
			change := round2((closePrice - prev) / prev * 100)
			obs.PercentChange = &change
		}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO price_history (stock_id, date, close_price, previous_close, percentage_change, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		obs.StockID, obs.Date, obs.ClosePrice, nullFloat(obs.PreviousClose), nullFloat(obs.PercentChange), obs.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.NewStoreError("add price", symbol, err)
	}
	obs.ID, _ = res.LastInsertId()
	return obs, nil
}

// GetPriceHistory returns observations within the look-back window, most
// recent first. Days outside 1-365 are clamped.
func (s *SQLiteStore) GetPriceHistory(ctx context.Context, symbol string, days int) ([]models.PriceObservation, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stock_id, date, close_price, previous_close, percentage_change, created_at
		 FROM price_history
		 WHERE stock_id = ? AND date >= ?
		 ORDER BY date DESC, id DESC`,
		stock.ID, cutoff,
	)
	if err != nil {
		return nil, apperrors.NewStoreError("price history", symbol, err)
	}
	defer rows.Close()

	var observations []models.PriceObservation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("price history", symbol, err)
		}
		observations = append(observations, *obs)
	}
	return observations, rows.Err()
}

// LatestPrice returns the most recent observation for a stock.
func (s *SQLiteStore) LatestPrice(ctx context.Context, symbol string) (*models.PriceObservation, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, stock_id, date, close_price, previous_close, percentage_change, created_at
		 FROM price_history
		 WHERE stock_id = ? ORDER BY date DESC, id DESC LIMIT 1`,
		stock.ID,
	)
	obs, err := scanObservation(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("latest price", symbol, err)
	}
	return obs, nil
}

// =========================================================================
// Alert ledger
// =========================================================================

// RecordAlertIfAbsent persists an alert for the observation unless one already
// exists for the stock on the same calendar day. The observation's date (not
// wall-clock insert time) determines the trigger day, so re-running an update
// or backfilling a day stays idempotent.
//
// The application-level existence check is only a fast path; the UNIQUE
// (stock_id, trigger_day) index resolves concurrent check-then-insert races,
// and a constraint conflict is reported as the duplicate outcome, not an
// error.
func (s *SQLiteStore) RecordAlertIfAbsent(ctx context.Context, symbol string, obs *models.PriceObservation) (*models.Alert, bool, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return nil, false, err
	}
	if obs == nil || obs.PercentChange == nil {
		return nil, false, apperrors.NewValidationError("observation", obs, "percentage change required")
	}

	triggeredAt := obs.Date
	if triggeredAt.IsZero() {
		triggeredAt = time.Now().UTC()
	}
	day := triggeredAt.UTC().Format("2006-01-02")

	var existing int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM alerts WHERE stock_id = ? AND trigger_day = ?`,
		stock.ID, day,
	).Scan(&existing)
	if err == nil {
		return nil, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, apperrors.NewStoreError("record alert", symbol, err)
	}

	alert := &models.Alert{
		StockID:         stock.ID,
		Symbol:          stock.Symbol,
		TriggeredAt:     triggeredAt.UTC(),
		PercentChange:   *obs.PercentChange,
		ThresholdAtTime: stock.Threshold,
		PriceBefore:     obs.PreviousClose,
		PriceAfter:      &obs.ClosePrice,
		Delivery: models.DeliveryStatus{
			Delivered: false,
			Channel:   models.ChannelNone,
		},
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (stock_id, triggered_at, trigger_day, percentage_change, threshold_at_time,
			price_before, price_after, delivered, channel, delivery_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, NULL)`,
		alert.StockID, alert.TriggeredAt, day, alert.PercentChange, alert.ThresholdAtTime,
		nullFloat(alert.PriceBefore), nullFloat(alert.PriceAfter), string(models.ChannelNone),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent insert for the same day.
			return nil, false, nil
		}
		return nil, false, apperrors.NewStoreError("record alert", symbol, err)
	}

	alert.ID, _ = res.LastInsertId()
	return alert, true, nil
}

// MarkDelivery records the outcome of a delivery attempt. Only the delivery
// columns are touched; the alert itself is never rolled back on notification
// failure.
func (s *SQLiteStore) MarkDelivery(ctx context.Context, alertID int64, delivered bool, channel models.Channel, errDetail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET delivered = ?, channel = ?, delivery_error = ? WHERE id = ?`,
		delivered, string(channel), nullString(errDetail), alertID,
	)
	if err != nil {
		return apperrors.NewStoreError("mark delivery", "", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrAlertNotFound
	}
	return nil
}

const alertColumns = `a.id, a.stock_id, s.symbol, a.triggered_at, a.percentage_change,
	a.threshold_at_time, a.price_before, a.price_after, a.delivered, a.channel, a.delivery_error`

// GetAlerts returns alerts in the look-back window, most recent first.
func (s *SQLiteStore) GetAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	days := filter.Days
	if days < 1 {
		days = 7
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	query := `SELECT ` + alertColumns + `
		FROM alerts a INNER JOIN stocks s ON s.id = a.stock_id
		WHERE a.triggered_at >= ?`
	args := []interface{}{cutoff}

	if filter.Symbol != "" {
		query += ` AND s.symbol = ?`
		args = append(args, normalizeSymbol(filter.Symbol))
	}
	query += ` ORDER BY a.triggered_at DESC`

	return s.queryAlerts(ctx, query, args...)
}

// GetPendingAlerts returns alerts whose notification has not been delivered,
// oldest first so retries drain in trigger order.
func (s *SQLiteStore) GetPendingAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + `
		FROM alerts a INNER JOIN stocks s ON s.id = a.stock_id
		WHERE a.delivered = 0
		ORDER BY a.triggered_at ASC`
	return s.queryAlerts(ctx, query)
}

func (s *SQLiteStore) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("query alerts", "", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var before, after sql.NullFloat64
		var channel, errDetail sql.NullString
		if err := rows.Scan(&a.ID, &a.StockID, &a.Symbol, &a.TriggeredAt, &a.PercentChange,
			&a.ThresholdAtTime, &before, &after, &a.Delivery.Delivered, &channel, &errDetail); err != nil {
			return nil, apperrors.NewStoreError("query alerts", "", err)
		}
		if before.Valid {
			v := before.Float64
			a.PriceBefore = &v
		}
		if after.Valid {
			v := after.Float64
			a.PriceAfter = &v
		}
		a.Delivery.Channel = models.ChannelNone
		if channel.Valid && channel.String != "" {
			a.Delivery.Channel = models.Channel(channel.String)
		}
		if errDetail.Valid {
			a.Delivery.Error = errDetail.String
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// =========================================================================
// News archive
// =========================================================================

// SaveArticle archives an article for a stock. Returns false when an article
// with the same URL already exists for that stock; articles without a URL are
// always saved.
func (s *SQLiteStore) SaveArticle(ctx context.Context, symbol string, article *models.NewsArticle) (bool, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return false, err
	}
	if article.Title == "" {
		return false, apperrors.NewValidationError("title", article.Title, "must not be empty")
	}
	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}
	article.StockID = stock.ID

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO news_articles (stock_id, title, description, url, image_url, source,
			published_at, fetched_at, photographer_name, photographer_username,
			photographer_url, download_location)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.StockID, article.Title, nullString(article.Description), nullString(article.URL),
		nullString(article.ImageURL), nullString(article.Source), nullTime(article.PublishedAt),
		article.FetchedAt, nullString(article.PhotographerName), nullString(article.PhotographerUsername),
		nullString(article.PhotographerURL), nullString(article.DownloadLocation),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, apperrors.NewStoreError("save article", symbol, err)
	}
	article.ID, _ = res.LastInsertId()
	return true, nil
}

// HasArticleURL reports whether an article with this URL is already archived
// for the stock. Empty URLs are never considered duplicates.
func (s *SQLiteStore) HasArticleURL(ctx context.Context, symbol, url string) (bool, error) {
	if url == "" {
		return false, nil
	}
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return false, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM news_articles WHERE stock_id = ? AND url = ?`,
		stock.ID, url,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreError("has article", symbol, err)
	}
	return true, nil
}

// GetNews returns archived articles for a stock, most recently fetched first.
func (s *SQLiteStore) GetNews(ctx context.Context, symbol string, limit int) ([]models.NewsArticle, error) {
	stock, err := s.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stock_id, title, description, url, image_url, source, published_at, fetched_at,
			photographer_name, photographer_username, photographer_url, download_location
		 FROM news_articles
		 WHERE stock_id = ?
		 ORDER BY fetched_at DESC, id DESC LIMIT ?`,
		stock.ID, limit,
	)
	if err != nil {
		return nil, apperrors.NewStoreError("get news", symbol, err)
	}
	defer rows.Close()

	var articles []models.NewsArticle
	for rows.Next() {
		var n models.NewsArticle
		var desc, url, image, source, photName, photUser, photURL, download sql.NullString
		var published sql.NullTime
		if err := rows.Scan(&n.ID, &n.StockID, &n.Title, &desc, &url, &image, &source,
			&published, &n.FetchedAt, &photName, &photUser, &photURL, &download); err != nil {
			return nil, apperrors.NewStoreError("get news", symbol, err)
		}
		n.Description = desc.String
		n.URL = url.String
		n.ImageURL = image.String
		n.Source = source.String
		n.PhotographerName = photName.String
		n.PhotographerUsername = photUser.String
		n.PhotographerURL = photURL.String
		n.DownloadLocation = download.String
		if published.Valid {
			t := published.Time
			n.PublishedAt = &t
		}
		articles = append(articles, n)
	}
	return articles, rows.Err()
}

// =========================================================================
// Reporting
// =========================================================================

// Summary returns aggregate statistics for the dashboard report.
func (s *SQLiteStore) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM stocks`,
	).Scan(&summary.TotalStocks, &summary.ActiveStocks)
	if err != nil {
		return nil, apperrors.NewStoreError("summary", "", err)
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE triggered_at >= ?`, cutoff,
	).Scan(&summary.AlertsLast24h)
	if err != nil {
		return nil, apperrors.NewStoreError("summary", "", err)
	}

	// MAX(created_at) would lose the column decltype and come back as a
	// raw string, so order and take the newest row instead.
	var last time.Time
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM price_history ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return nil, apperrors.NewStoreError("summary", "", err)
	}
	if err == nil {
		summary.LastPriceUpdate = &last
	}
	return summary, nil
}

// =========================================================================
// Helpers
// =========================================================================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStock(row rowScanner) (*models.Stock, error) {
	var st models.Stock
	err := row.Scan(&st.ID, &st.Symbol, &st.Name, &st.Threshold, &st.Active, &st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrStockNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get stock", "", err)
	}
	return &st, nil
}

func scanObservation(row rowScanner) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	var previous, change sql.NullFloat64
	err := row.Scan(&obs.ID, &obs.StockID, &obs.Date, &obs.ClosePrice, &previous, &change, &obs.CreatedAt)
	if err != nil {
		return nil, err
	}
	if previous.Valid {
		v := previous.Float64
		obs.PreviousClose = &v
	}
	if change.Valid {
		v := change.Float64
		obs.PercentChange = &v
	}
	return &obs, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// round2 rounds to 2 decimal places using standard rounding.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if apperrors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
