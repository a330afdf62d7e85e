package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addTestStock(t *testing.T, store *SQLiteStore, symbol string, threshold float64) *models.Stock {
	t.Helper()
	stock, err := store.CreateStock(context.Background(), symbol, symbol+" Inc", threshold)
	if err != nil {
		t.Fatalf("Failed to create stock %s: %v", symbol, err)
	}
	return stock
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateAndGetStock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateStock(ctx, "aapl", "Apple Inc", 3.0)
	if err != nil {
		t.Fatalf("CreateStock failed: %v", err)
	}
	if created.Symbol != "AAPL" {
		t.Errorf("Expected normalized symbol AAPL, got %s", created.Symbol)
	}
	if !created.Active {
		t.Error("New stock should be active")
	}

	got, err := store.GetStock(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetStock failed: %v", err)
	}
	if got.Threshold != 3.0 {
		t.Errorf("Expected threshold 3.0, got %v", got.Threshold)
	}

	if _, err := store.CreateStock(ctx, "AAPL", "Apple again", 5.0); err == nil {
		t.Error("Expected error for duplicate symbol")
	}

	if _, err := store.GetStock(ctx, "MISSING"); !apperrors.Is(err, apperrors.ErrStockNotFound) {
		t.Errorf("Expected ErrStockNotFound, got %v", err)
	}
}

func TestCreateStockValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateStock(ctx, "", "Empty", 3.0); err == nil {
		t.Error("Expected error for empty symbol")
	}
	if _, err := store.CreateStock(ctx, "TSLA", "", 3.0); err == nil {
		t.Error("Expected error for empty name")
	}
	if _, err := store.CreateStock(ctx, "TSLA", "Tesla", 0); !apperrors.Is(err, apperrors.ErrInvalidThreshold) {
		t.Errorf("Expected ErrInvalidThreshold, got %v", err)
	}
	if _, err := store.CreateStock(ctx, "TSLA", "Tesla", -2.5); !apperrors.Is(err, apperrors.ErrInvalidThreshold) {
		t.Errorf("Expected ErrInvalidThreshold for negative, got %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "MSFT", 5.0)

	threshold := 2.5
	active := false
	updated, err := store.UpdateStock(ctx, "msft", models.StockUpdate{Threshold: &threshold, Active: &active})
	if err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if updated.Threshold != 2.5 {
		t.Errorf("Expected threshold 2.5, got %v", updated.Threshold)
	}
	if updated.Active {
		t.Error("Expected stock to be inactive")
	}

	// Deactivated stocks drop out of the active listing but keep history
	active2, err := store.ListStocks(ctx, true)
	if err != nil {
		t.Fatalf("ListStocks failed: %v", err)
	}
	if len(active2) != 0 {
		t.Errorf("Expected 0 active stocks, got %d", len(active2))
	}
	all, err := store.ListStocks(ctx, false)
	if err != nil {
		t.Fatalf("ListStocks failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 stock in full listing, got %d", len(all))
	}

	bad := -1.0
	if _, err := store.UpdateStock(ctx, "MSFT", models.StockUpdate{Threshold: &bad}); !apperrors.Is(err, apperrors.ErrInvalidThreshold) {
		t.Errorf("Expected ErrInvalidThreshold, got %v", err)
	}
	if _, err := store.UpdateStock(ctx, "NOPE", models.StockUpdate{Active: &active}); !apperrors.Is(err, apperrors.ErrStockNotFound) {
		t.Errorf("Expected ErrStockNotFound, got %v", err)
	}
}

func TestAddPriceComputesChange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	first, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if first.PreviousClose != nil {
		t.Error("First observation should have nil previous close")
	}
	if first.PercentChange != nil {
		t.Error("First observation should have nil percent change")
	}

	second, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 104.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if second.PreviousClose == nil || *second.PreviousClose != 100.0 {
		t.Errorf("Expected previous close 100.0, got %v", second.PreviousClose)
	}
	if second.PercentChange == nil || *second.PercentChange != 4.0 {
		t.Errorf("Expected percent change 4.0, got %v", second.PercentChange)
	}

	// (100-104)/104*100 = -3.84615..., rounded to two decimals
	third, err := store.AddPrice(ctx, "AAPL", day("2026-08-27"), 100.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if third.PercentChange == nil || *third.PercentChange != -3.85 {
		t.Errorf("Expected percent change -3.85, got %v", third.PercentChange)
	}
}

func TestAddPriceSameDateBackfill(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	// Correction for the same date is appended, not rejected
	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 101.0); err != nil {
		t.Fatalf("AddPrice for same date failed: %v", err)
	}

	// The correction becomes the basis for the next change
	latest, err := store.LatestPrice(ctx, "AAPL")
	if err != nil {
		t.Fatalf("LatestPrice failed: %v", err)
	}
	if latest.ClosePrice != 101.0 {
		t.Errorf("Expected latest close 101.0, got %v", latest.ClosePrice)
	}

	next, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 102.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if next.PreviousClose == nil || *next.PreviousClose != 101.0 {
		t.Errorf("Expected previous close 101.0 from correction, got %v", next.PreviousClose)
	}
}

func TestAddPriceValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 0); err == nil {
		t.Error("Expected error for zero close price")
	}
	if _, err := store.AddPrice(ctx, "NOPE", day("2026-08-25"), 100.0); !apperrors.Is(err, apperrors.ErrStockNotFound) {
		t.Errorf("Expected ErrStockNotFound, got %v", err)
	}
}

func TestRecordAlertIfAbsent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	obs, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 104.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}

	alert, created, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs)
	if err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}
	if !created || alert == nil {
		t.Fatal("Expected alert to be created")
	}
	if alert.PercentChange != 4.0 {
		t.Errorf("Expected percent change 4.0, got %v", alert.PercentChange)
	}
	if alert.ThresholdAtTime != 3.0 {
		t.Errorf("Expected threshold snapshot 3.0, got %v", alert.ThresholdAtTime)
	}
	if alert.PriceBefore == nil || *alert.PriceBefore != 100.0 {
		t.Errorf("Expected price before 100.0, got %v", alert.PriceBefore)
	}
	if alert.PriceAfter == nil || *alert.PriceAfter != 104.0 {
		t.Errorf("Expected price after 104.0, got %v", alert.PriceAfter)
	}
	if alert.Delivery.Delivered {
		t.Error("New alert should not be marked delivered")
	}

	// Second crossing on the same day is suppressed, not an error
	obs2, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 110.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	dup, created, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs2)
	if err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}
	if created || dup != nil {
		t.Error("Expected duplicate same-day alert to be suppressed")
	}

	// A new day is a fresh slate
	obs3, err := store.AddPrice(ctx, "AAPL", day("2026-08-27"), 120.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	_, created, err = store.RecordAlertIfAbsent(ctx, "AAPL", obs3)
	if err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}
	if !created {
		t.Error("Expected alert on a new day to be created")
	}
}

func TestRecordAlertThresholdSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	obs, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 104.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	alert, _, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs)
	if err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}

	// Raising the threshold later must not rewrite the recorded alert
	newThreshold := 10.0
	if _, err := store.UpdateStock(ctx, "AAPL", models.StockUpdate{Threshold: &newThreshold}); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	alerts, err := store.GetAlerts(ctx, AlertFilter{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].ThresholdAtTime != alert.ThresholdAtTime {
		t.Errorf("Threshold snapshot changed: expected %v, got %v", alert.ThresholdAtTime, alerts[0].ThresholdAtTime)
	}
}

func TestRecordAlertRequiresChange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	obs, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if obs.PercentChange != nil {
		t.Fatal("First observation should have nil change")
	}
	if _, _, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs); err == nil {
		t.Error("Expected error for observation without percent change")
	}
}

func TestMarkDelivery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	obs, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 104.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	alert, _, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs)
	if err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}

	pending, err := store.GetPendingAlerts(ctx)
	if err != nil {
		t.Fatalf("GetPendingAlerts failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending alert, got %d", len(pending))
	}

	// A failed attempt records the error and stays pending
	if err := store.MarkDelivery(ctx, alert.ID, false, models.ChannelWhatsApp, "connection refused"); err != nil {
		t.Fatalf("MarkDelivery failed: %v", err)
	}
	pending, err = store.GetPendingAlerts(ctx)
	if err != nil {
		t.Fatalf("GetPendingAlerts failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected alert to remain pending after failure, got %d", len(pending))
	}
	if pending[0].Delivery.Error != "connection refused" {
		t.Errorf("Expected recorded delivery error, got %q", pending[0].Delivery.Error)
	}

	// A successful attempt drains it
	if err := store.MarkDelivery(ctx, alert.ID, true, models.ChannelWhatsApp, ""); err != nil {
		t.Fatalf("MarkDelivery failed: %v", err)
	}
	pending, err = store.GetPendingAlerts(ctx)
	if err != nil {
		t.Fatalf("GetPendingAlerts failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("Expected no pending alerts, got %d", len(pending))
	}

	alerts, err := store.GetAlerts(ctx, AlertFilter{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	a := alerts[0]
	if !a.Delivery.Delivered || a.Delivery.Channel != models.ChannelWhatsApp {
		t.Errorf("Expected delivered over whatsapp, got %+v", a.Delivery)
	}
	// Delivery must not touch the alert payload
	if a.PercentChange != alert.PercentChange || a.ThresholdAtTime != alert.ThresholdAtTime {
		t.Error("MarkDelivery modified non-delivery fields")
	}

	if err := store.MarkDelivery(ctx, 99999, true, models.ChannelSMS, ""); !apperrors.Is(err, apperrors.ErrAlertNotFound) {
		t.Errorf("Expected ErrAlertNotFound, got %v", err)
	}
}

func TestGetPendingAlertsOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 1.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-24"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	prices := map[string]float64{"2026-08-25": 105.0, "2026-08-26": 111.0, "2026-08-27": 118.0}
	for _, d := range []string{"2026-08-25", "2026-08-26", "2026-08-27"} {
		obs, err := store.AddPrice(ctx, "AAPL", day(d), prices[d])
		if err != nil {
			t.Fatalf("AddPrice failed: %v", err)
		}
		if obs.PercentChange == nil {
			t.Fatal("Expected percent change")
		}
		if _, _, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs); err != nil {
			t.Fatalf("RecordAlertIfAbsent failed: %v", err)
		}
	}

	pending, err := store.GetPendingAlerts(ctx)
	if err != nil {
		t.Fatalf("GetPendingAlerts failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Expected 3 pending alerts, got %d", len(pending))
	}
	for i := 1; i < len(pending); i++ {
		if pending[i].TriggeredAt.Before(pending[i-1].TriggeredAt) {
			t.Error("Pending alerts should be ordered oldest first")
		}
	}
}

func TestSaveArticleDedupe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)
	addTestStock(t, store, "MSFT", 3.0)

	article := func(url string) *models.NewsArticle {
		return &models.NewsArticle{Title: "Quarterly results", URL: url, Source: "Newswire"}
	}

	saved, err := store.SaveArticle(ctx, "AAPL", article("https://example.com/a"))
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if !saved {
		t.Error("Expected first article to be saved")
	}

	saved, err = store.SaveArticle(ctx, "AAPL", article("https://example.com/a"))
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if saved {
		t.Error("Expected duplicate URL for same stock to be skipped")
	}

	// Same URL under a different stock is a separate archive entry
	saved, err = store.SaveArticle(ctx, "MSFT", article("https://example.com/a"))
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if !saved {
		t.Error("Expected same URL for different stock to be saved")
	}

	// Articles without a URL are exempt from dedupe
	for i := 0; i < 2; i++ {
		saved, err = store.SaveArticle(ctx, "AAPL", article(""))
		if err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
		if !saved {
			t.Error("Expected article without URL to always be saved")
		}
	}

	exists, err := store.HasArticleURL(ctx, "AAPL", "https://example.com/a")
	if err != nil {
		t.Fatalf("HasArticleURL failed: %v", err)
	}
	if !exists {
		t.Error("Expected HasArticleURL to report archived URL")
	}
	exists, err = store.HasArticleURL(ctx, "AAPL", "")
	if err != nil {
		t.Fatalf("HasArticleURL failed: %v", err)
	}
	if exists {
		t.Error("Empty URL should never count as a duplicate")
	}

	news, err := store.GetNews(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("GetNews failed: %v", err)
	}
	if len(news) != 3 {
		t.Errorf("Expected 3 archived articles for AAPL, got %d", len(news))
	}
}

func TestDeleteStockCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	obs, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 104.0)
	if err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if _, _, err := store.RecordAlertIfAbsent(ctx, "AAPL", obs); err != nil {
		t.Fatalf("RecordAlertIfAbsent failed: %v", err)
	}
	if _, err := store.SaveArticle(ctx, "AAPL", &models.NewsArticle{Title: "t", URL: "https://example.com/x"}); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	if err := store.DeleteStock(ctx, "AAPL"); err != nil {
		t.Fatalf("DeleteStock failed: %v", err)
	}

	var prices, alerts, articles int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM price_history`).Scan(&prices); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM alerts`).Scan(&alerts); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM news_articles`).Scan(&articles); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if prices != 0 || alerts != 0 || articles != 0 {
		t.Errorf("Expected cascade delete, got prices=%d alerts=%d articles=%d", prices, alerts, articles)
	}

	if err := store.DeleteStock(ctx, "AAPL"); !apperrors.Is(err, apperrors.ErrStockNotFound) {
		t.Errorf("Expected ErrStockNotFound, got %v", err)
	}
}

func TestGetAlertsFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 1.0)
	addTestStock(t, store, "MSFT", 1.0)

	for _, symbol := range []string{"AAPL", "MSFT"} {
		if _, err := store.AddPrice(ctx, symbol, day("2026-08-25"), 100.0); err != nil {
			t.Fatalf("AddPrice failed: %v", err)
		}
		obs, err := store.AddPrice(ctx, symbol, day("2026-08-26"), 110.0)
		if err != nil {
			t.Fatalf("AddPrice failed: %v", err)
		}
		if _, _, err := store.RecordAlertIfAbsent(ctx, symbol, obs); err != nil {
			t.Fatalf("RecordAlertIfAbsent failed: %v", err)
		}
	}

	all, err := store.GetAlerts(ctx, AlertFilter{Days: 30})
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 alerts, got %d", len(all))
	}

	aapl, err := store.GetAlerts(ctx, AlertFilter{Symbol: "aapl", Days: 30})
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(aapl) != 1 || aapl[0].Symbol != "AAPL" {
		t.Errorf("Expected 1 AAPL alert, got %+v", aapl)
	}
}

func TestSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	empty, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if empty.TotalStocks != 0 || empty.LastPriceUpdate != nil {
		t.Errorf("Expected empty summary, got %+v", empty)
	}

	addTestStock(t, store, "AAPL", 3.0)
	stock := addTestStock(t, store, "MSFT", 3.0)
	inactive := false
	if _, err := store.UpdateStock(ctx, stock.Symbol, models.StockUpdate{Active: &inactive}); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-25"), 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalStocks != 2 || summary.ActiveStocks != 1 {
		t.Errorf("Expected 2 total / 1 active, got %d/%d", summary.TotalStocks, summary.ActiveStocks)
	}
	if summary.LastPriceUpdate == nil {
		t.Error("Expected last price update timestamp")
	} else if summary.LastPriceUpdate.IsZero() {
		t.Error("Expected non-zero last price update timestamp")
	}

	// A second observation must not break the timestamp lookup either.
	if _, err := store.AddPrice(ctx, "AAPL", day("2026-08-26"), 101.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	summary, err = store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.LastPriceUpdate == nil {
		t.Error("Expected last price update timestamp")
	}
}

func TestGetPriceHistoryClampsDays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	addTestStock(t, store, "AAPL", 3.0)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if _, err := store.AddPrice(ctx, "AAPL", today, 100.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}
	if _, err := store.AddPrice(ctx, "AAPL", day("2020-01-02"), 80.0); err != nil {
		t.Fatalf("AddPrice failed: %v", err)
	}

	cases := []struct {
		days int
		want int
	}{
		{0, 1},    // clamped to 1, only today's row
		{-5, 1},   // clamped to 1
		{1000, 1}, // clamped to 365, the 2020 row stays out
		{30, 1},
	}
	for _, c := range cases {
		history, err := store.GetPriceHistory(ctx, "AAPL", c.days)
		if err != nil {
			t.Fatalf("GetPriceHistory(%d) failed: %v", c.days, err)
		}
		if len(history) != c.want {
			t.Errorf("GetPriceHistory(%d) returned %d rows, want %d", c.days, len(history), c.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.0, 4.0},
		{-3.846153846, -3.85},
		{2.346, 2.35},
		{-2.344, -2.34},
		{0.0, 0.0},
	}
	for _, c := range cases {
		if got := round2(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
