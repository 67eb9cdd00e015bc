package repository

import (
	"context"
	"database/sql"
	"fmt"
	"marketlens/internal/mock"
	"marketlens/internal/model"
	"marketlens/pkg/news"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lib/pq"
)

// PendingNews is a fetched item waiting for classification.
type PendingNews struct {
	ID      int64
	Title   string
	Summary string
	Status  string
}

type Enrichment struct {
	Category      string
	Sentiment     string
	ImpactScore   int
	Reliability   int
	IsFact        bool
	AssetImpact   *model.AssetImpact
	PromptVersion string
	ModelUsed     string
}

// MarketRepository is the Postgres market store. The API only sees enriched
// news; pending and failed items stay with the workers.
type MarketRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewMarketRepository(db *sql.DB) *MarketRepository {
	return &MarketRepository{db: db, now: time.Now}
}

func (r *MarketRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *MarketRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *MarketRepository) Stocks(ctx context.Context) ([]model.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, name, price, change, change_percent, sector, weight
		FROM stock
		ORDER BY weight DESC, symbol ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []model.Stock
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.Symbol, &s.Name, &s.Price, &s.Change, &s.ChangePercent, &s.Sector, &s.Weight); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stocks, nil
}

const newsSelect = `
	SELECT n.id, n.title, n.summary, n.source, n.published_at, n.display_time,
		n.category, n.sentiment, n.impact_score, n.reliability, n.is_fact,
		n.has_conflict, n.conflict_note, n.equity_impact, n.bond_impact, n.fx_impact,
		COALESCE(array_agg(s.symbol ORDER BY s.position) FILTER (WHERE s.symbol IS NOT NULL), '{}'::text[])
	FROM news_item n
	LEFT JOIN news_symbol s ON s.news_id = n.id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MarketRepository) scanNews(row rowScanner) (*model.NewsItem, error) {
	var (
		n           model.NewsItem
		id          int64
		publishedAt time.Time
		display     sql.NullString
		equity      sql.NullString
		bond        sql.NullString
		fx          sql.NullString
		symbols     []string
	)

	err := row.Scan(&id, &n.Title, &n.Summary, &n.Source, &publishedAt, &display,
		&n.Category, &n.Sentiment, &n.ImpactScore, &n.Reliability, &n.IsFact,
		&n.HasConflict, &n.ConflictNote, &equity, &bond, &fx, pq.Array(&symbols))
	if err != nil {
		return nil, err
	}

	n.ID = strconv.FormatInt(id, 10)
	n.Timestamp = displayTimestamp(display, publishedAt, r.now())
	n.AssetImpact = assetImpact(equity, bond, fx)
	n.RelatedStocks = symbols
	if n.RelatedStocks == nil {
		n.RelatedStocks = []string{}
	}

	return &n, nil
}

func (r *MarketRepository) News(ctx context.Context) ([]model.NewsItem, error) {
	rows, err := r.db.QueryContext(ctx, newsSelect+`
		WHERE n.status = $1
		GROUP BY n.id
		ORDER BY n.published_at DESC, n.id ASC
	`, model.StatusEnriched)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.NewsItem
	for rows.Next() {
		n, err := r.scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// NewsByID returns nil, nil for ids that are not numeric, not found or not
// yet enriched.
func (r *MarketRepository) NewsByID(ctx context.Context, id string) (*model.NewsItem, error) {
	newsID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}

	row := r.db.QueryRowContext(ctx, newsSelect+`
		WHERE n.id = $1 AND n.status = $2
		GROUP BY n.id
	`, newsID, model.StatusEnriched)

	n, err := r.scanNews(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return n, nil
}

func (r *MarketRepository) Indicators(ctx context.Context) ([]model.EconomicIndicator, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, region, actual, forecast, previous, status, insight
		FROM economic_indicator
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indicators []model.EconomicIndicator
	for rows.Next() {
		var i model.EconomicIndicator
		if err := rows.Scan(&i.ID, &i.Name, &i.Region, &i.Actual, &i.Forecast, &i.Previous, &i.Status, &i.Insight); err != nil {
			return nil, err
		}
		indicators = append(indicators, i)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return indicators, nil
}

func (r *MarketRepository) Calendar(ctx context.Context) ([]model.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_date, name, importance, region, forecast
		FROM calendar_event
		ORDER BY event_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		var e model.CalendarEvent
		if err := rows.Scan(&e.ID, &e.Date, &e.Name, &e.Importance, &e.Region, &e.Forecast); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *MarketRepository) Performance(ctx context.Context) ([]model.PerformancePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT time, value FROM performance_point ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.PerformancePoint
	for rows.Next() {
		var p model.PerformancePoint
		if err := rows.Scan(&p.Time, &p.Value); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// SaveFetchedNews stores a fetched article as pending. It returns the new id
// and false when the URL was already stored.
func (r *MarketRepository) SaveFetchedNews(ctx context.Context, a news.Article) (int64, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	publishedAt := a.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = r.now()
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO news_item(title, summary, source, url, external_id, published_at, status)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, a.Title, a.Summary, sourceName(a), a.URL, a.ExternalID, publishedAt, model.StatusPending).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, err
	}

	if err := saveSymbols(ctx, tx, id, a.Symbols); err != nil {
		return 0, false, err
	}

	return id, true, tx.Commit()
}

func saveSymbols(ctx context.Context, tx *sql.Tx, newsID int64, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO news_symbol(news_id, symbol, position)
		SELECT $1, s, o FROM unnest($2::text[]) WITH ORDINALITY AS t(s, o)
		ON CONFLICT DO NOTHING
	`, newsID, pq.Array(symbols))
	return err
}

func (r *MarketRepository) UpdateQuote(ctx context.Context, q news.Quote) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE stock SET price = $1, change = $2, change_percent = $3, updated_at = now()
		WHERE symbol = $4
	`, q.Price, q.Change, q.ChangePercent, q.Symbol)
	return err
}

func (r *MarketRepository) GetNewsForEnrichment(ctx context.Context, id int64) (*PendingNews, error) {
	var p PendingNews
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, summary, status FROM news_item WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Summary, &p.Status)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetPendingIDs lists pending items, oldest fetch first.
func (r *MarketRepository) GetPendingIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM news_item
		WHERE status = $1
		ORDER BY fetched_at ASC
		LIMIT $2
	`, model.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *MarketRepository) SaveEnrichment(ctx context.Context, id int64, e Enrichment) error {
	var equity, bond, fx sql.NullString
	if e.AssetImpact != nil {
		equity = sql.NullString{String: e.AssetImpact.Equity, Valid: true}
		bond = sql.NullString{String: e.AssetImpact.Bond, Valid: true}
		fx = sql.NullString{String: e.AssetImpact.FX, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE news_item SET
			category = $1, sentiment = $2, impact_score = $3, reliability = $4, is_fact = $5,
			equity_impact = $6, bond_impact = $7, fx_impact = $8,
			prompt_version = $9, model_used = $10, status = $11
		WHERE id = $12
	`, e.Category, e.Sentiment, e.ImpactScore, e.Reliability, e.IsFact,
		equity, bond, fx, e.PromptVersion, e.ModelUsed, model.StatusEnriched, id)
	return err
}

func (r *MarketRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE news_item SET status = $1 WHERE id = $2
	`, status, id)
	return err
}

func (r *MarketRepository) SaveError(ctx context.Context, id int64, errMsg string, errType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO processing_error(news_id, error_message, error_type)
		VALUES($1, $2, $3)
	`, id, errMsg, errType)
	return err
}

func (r *MarketRepository) GetErrorCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM processing_error
		WHERE news_id = $1
	`, id).Scan(&count)
	return count, err
}

// SeedDataset loads the embedded dataset. Stocks, indicators, calendar and
// performance are upserted; news is inserted once per item and keeps the
// dataset's display timestamps. It returns the number of news items added.
func (r *MarketRepository) SeedDataset(ctx context.Context, ds *mock.Dataset) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, s := range ds.Stocks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock(symbol, name, price, change, change_percent, sector, weight)
			VALUES($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (symbol) DO UPDATE SET
				name = EXCLUDED.name, price = EXCLUDED.price, change = EXCLUDED.change,
				change_percent = EXCLUDED.change_percent, sector = EXCLUDED.sector,
				weight = EXCLUDED.weight, updated_at = now()
		`, s.Symbol, s.Name, s.Price, s.Change, s.ChangePercent, s.Sector, s.Weight)
		if err != nil {
			return 0, fmt.Errorf("seed stock %s: %w", s.Symbol, err)
		}
	}

	base := r.now()
	inserted := 0
	for i, n := range ds.News {
		var equity, bond, fx sql.NullString
		if n.AssetImpact != nil {
			equity = sql.NullString{String: n.AssetImpact.Equity, Valid: true}
			bond = sql.NullString{String: n.AssetImpact.Bond, Valid: true}
			fx = sql.NullString{String: n.AssetImpact.FX, Valid: true}
		}

		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO news_item(title, summary, source, url, external_id, published_at, display_time,
				category, sentiment, impact_score, reliability, is_fact, has_conflict, conflict_note,
				equity_impact, bond_impact, fx_impact, status)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (url) DO NOTHING
			RETURNING id
		`, n.Title, n.Summary, n.Source, seedURL(n.ID), n.ID, base.Add(-time.Duration(i)*time.Minute), n.Timestamp,
			n.Category, n.Sentiment, n.ImpactScore, n.Reliability, n.IsFact, n.HasConflict, n.ConflictNote,
			equity, bond, fx, model.StatusEnriched).Scan(&id)

		if err == sql.ErrNoRows {
			continue
		}

		if err != nil {
			return 0, fmt.Errorf("seed news %s: %w", n.ID, err)
		}

		if err := saveSymbols(ctx, tx, id, n.RelatedStocks); err != nil {
			return 0, fmt.Errorf("seed news %s symbols: %w", n.ID, err)
		}
		inserted++
	}

	for _, ind := range ds.Indicators {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO economic_indicator(id, name, region, actual, forecast, previous, status, insight)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, region = EXCLUDED.region, actual = EXCLUDED.actual,
				forecast = EXCLUDED.forecast, previous = EXCLUDED.previous,
				status = EXCLUDED.status, insight = EXCLUDED.insight
		`, ind.ID, ind.Name, ind.Region, ind.Actual, ind.Forecast, ind.Previous, ind.Status, ind.Insight)
		if err != nil {
			return 0, fmt.Errorf("seed indicator %s: %w", ind.ID, err)
		}
	}

	for _, e := range ds.Calendar {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO calendar_event(id, event_date, name, importance, region, forecast)
			VALUES($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				event_date = EXCLUDED.event_date, name = EXCLUDED.name, importance = EXCLUDED.importance,
				region = EXCLUDED.region, forecast = EXCLUDED.forecast
		`, e.ID, e.Date, e.Name, e.Importance, e.Region, e.Forecast)
		if err != nil {
			return 0, fmt.Errorf("seed calendar %s: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM performance_point`); err != nil {
		return 0, err
	}
	for i, p := range ds.Performance {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO performance_point(position, time, value) VALUES($1, $2, $3)
		`, i, p.Time, p.Value)
		if err != nil {
			return 0, fmt.Errorf("seed performance: %w", err)
		}
	}

	return inserted, tx.Commit()
}

// displayTimestamp prefers a stored display string (seeded items) and falls
// back to a relative time such as "3 hours ago".
func displayTimestamp(display sql.NullString, publishedAt, now time.Time) string {
	if display.Valid && display.String != "" {
		return display.String
	}
	return humanize.RelTime(publishedAt, now, "ago", "from now")
}

func assetImpact(equity, bond, fx sql.NullString) *model.AssetImpact {
	if !equity.Valid && !bond.Valid && !fx.Valid {
		return nil
	}
	return &model.AssetImpact{
		Equity: equity.String,
		Bond:   bond.String,
		FX:     fx.String,
	}
}

func sourceName(a news.Article) string {
	if a.Publisher != "" {
		return a.Publisher
	}
	return a.Source
}

func seedURL(id string) string {
	return "seed://news/" + id
}
