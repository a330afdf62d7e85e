package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "stockwatch/internal/errors"
	"stockwatch/internal/logging"
	"stockwatch/internal/models"
	"stockwatch/internal/providers"
	"stockwatch/internal/store"
)

// Updater orchestrates the per-stock update pipeline: fetch price, append to
// the series, evaluate the threshold and record an alert. Detection and
// notification are deliberately separate; the updater never sends messages.
type Updater struct {
	store   store.DataStore
	prices  providers.PriceProvider
	news    providers.NewsProvider
	images  providers.ImageProvider
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger
}

// Options configures an Updater.
type Options struct {
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewUpdater creates an update orchestrator. The images provider may be nil
// when no fallback image provider is configured.
func NewUpdater(st store.DataStore, prices providers.PriceProvider, news providers.NewsProvider, images providers.ImageProvider, opts Options, logger zerolog.Logger) *Updater {
	rpm := opts.RequestsPerMinute
	if rpm < 1 {
		rpm = 30
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Updater{
		store:   st,
		prices:  prices,
		news:    news,
		images:  images,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		timeout: timeout,
		logger:  logger,
	}
}

// UpdateResult is the outcome of a single stock update.
type UpdateResult struct {
	Symbol      string
	Observation *models.PriceObservation
	Alert       *models.Alert // nil unless a new alert was recorded
	Skipped     bool          // threshold crossed but alert already existed for the day
}

// StockOutcome is one entry of a batch summary.
type StockOutcome struct {
	Symbol string
	Result *UpdateResult
	Err    error
}

// BatchSummary aggregates the outcomes of an UpdateAll pass.
type BatchSummary struct {
	Updated       int
	Failed        int
	AlertsCreated int
	Outcomes      []StockOutcome
}

// UpdateOne fetches the current daily close for a stock, appends it to the
// price series and records an alert when the threshold is crossed. The caller
// decides whether and when to dispatch notifications.
func (u *Updater) UpdateOne(ctx context.Context, stock *models.Stock) (*UpdateResult, error) {
	result := &UpdateResult{Symbol: stock.Symbol}
	log := logging.WithSymbol(u.logger, stock.Symbol)

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	start := time.Now()
	quote, err := u.prices.GetDailyClose(callCtx, stock.Symbol)
	logging.LogProviderCall(u.logger, "alphavantage", "daily close", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	obs, err := u.store.AddPrice(ctx, stock.Symbol, quote.Date, quote.Close)
	if err != nil {
		return nil, err
	}
	result.Observation = obs
	logging.LogPriceUpdate(u.logger, stock.Symbol, obs.ClosePrice, obs.PercentChange)

	if !ShouldAlert(stock.Threshold, obs) {
		return result, nil
	}

	alert, created, err := u.store.RecordAlertIfAbsent(ctx, stock.Symbol, obs)
	if err != nil {
		return nil, err
	}
	if !created {
		result.Skipped = true
		log.Info().Msg("Alert already recorded for this day")
		return result, nil
	}

	result.Alert = alert
	logging.LogAlert(u.logger, stock.Symbol, alert.PercentChange, alert.ThresholdAtTime)
	return result, nil
}

// UpdateAll runs UpdateOne for every active stock. Stocks are processed
// sequentially with cooperative pacing between provider calls; the failure of
// one stock never aborts the batch.
func (u *Updater) UpdateAll(ctx context.Context) (*BatchSummary, error) {
	stocks, err := u.store.ListStocks(ctx, true)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	for i := range stocks {
		stock := &stocks[i]

		if err := u.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		result, err := u.UpdateOne(ctx, stock)
		summary.Outcomes = append(summary.Outcomes, StockOutcome{Symbol: stock.Symbol, Result: result, Err: err})
		if err != nil {
			summary.Failed++
			u.logger.Error().Err(err).Str("symbol", stock.Symbol).Msg("Stock update failed")
			continue
		}
		summary.Updated++
		if result.Alert != nil {
			summary.AlertsCreated++
		}
	}

	u.logger.Info().
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Int("alerts", summary.AlertsCreated).
		Msg("Price update batch complete")

	return summary, nil
}

// NewsReport is the outcome of a news refresh for one stock.
type NewsReport struct {
	Symbol  string
	Fetched int
	Saved   int
}

// FetchNews queries the news provider for a stock, drops articles already
// archived (by URL), backfills missing images from the fallback image
// provider and persists the rest.
func (u *Updater) FetchNews(ctx context.Context, stock *models.Stock, limit int) (*NewsReport, error) {
	report := &NewsReport{Symbol: stock.Symbol}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	start := time.Now()
	articles, err := u.news.Search(callCtx, stock.Name, limit)
	logging.LogProviderCall(u.logger, "newsapi", "search", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	report.Fetched = len(articles)

	for _, a := range articles {
		exists, err := u.store.HasArticleURL(ctx, stock.Symbol, a.URL)
		if err != nil {
			return report, err
		}
		if exists {
			continue
		}

		article := &models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.ImageURL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
		}

		if article.ImageURL == "" && u.images != nil {
			u.backfillImage(ctx, stock.Name, article)
		}

		saved, err := u.store.SaveArticle(ctx, stock.Symbol, article)
		if err != nil {
			u.logger.Error().Err(err).Str("symbol", stock.Symbol).Msg("Failed to archive article")
			continue
		}
		if saved {
			report.Saved++
		}
	}

	u.logger.Info().
		Str("symbol", stock.Symbol).
		Int("fetched", report.Fetched).
		Int("saved", report.Saved).
		Msg("News refresh complete")

	return report, nil
}

// backfillImage fetches a fallback image with attribution. Image failures are
// tolerated; the article is archived without one.
func (u *Updater) backfillImage(ctx context.Context, companyName string, article *models.NewsArticle) {
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	img, err := u.images.GetImage(callCtx, companyName)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotConfigured) && !apperrors.Is(err, apperrors.ErrNotFound) {
			u.logger.Debug().Err(err).Str("company", companyName).Msg("Fallback image lookup failed")
		}
		return
	}

	article.ImageURL = img.URL
	article.PhotographerName = img.PhotographerName
	article.PhotographerUsername = img.PhotographerUsername
	article.PhotographerURL = img.PhotographerURL
	article.DownloadLocation = img.DownloadLocation

	// Usage must be reported even if the event call fails
	if err := u.images.TriggerDownload(ctx, img.DownloadLocation); err != nil {
		u.logger.Debug().Err(err).Msg("Download event failed")
	}
}

// FetchAllNews refreshes news for every active stock with the same isolation
// and pacing policy as UpdateAll.
func (u *Updater) FetchAllNews(ctx context.Context, limit int) ([]NewsReport, error) {
	stocks, err := u.store.ListStocks(ctx, true)
	if err != nil {
		return nil, err
	}

	var reports []NewsReport
	for i := range stocks {
		stock := &stocks[i]

		if err := u.limiter.Wait(ctx); err != nil {
			return reports, err
		}

		report, err := u.FetchNews(ctx, stock, limit)
		if err != nil {
			u.logger.Error().Err(err).Str("symbol", stock.Symbol).Msg("News refresh failed")
			continue
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
