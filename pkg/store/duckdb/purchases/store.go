package purchases

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/adapters"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/models/store"
	"github.com/de-tools/shopping-atlas/pkg/services/dashboard"
	"github.com/de-tools/shopping-atlas/pkg/store/duckdb"
	"github.com/shopspring/decimal"
)

// Store keeps the dataset in the purchases table and answers dashboard
// queries with SQL. It satisfies dashboard.Engine.
type Store interface {
	dashboard.Engine
	Load(ctx context.Context, ds domain.Dataset) error
	Add(ctx context.Context, records []store.PurchaseRecord) error
}

type purchaseStore struct {
	db       *sql.DB
	seasons  []string
	settings dashboard.Settings
}

func NewStore(db *sql.DB, settings dashboard.Settings) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &purchaseStore{
		db:       db,
		settings: settings,
	}, nil
}

// Load replaces the table contents with ds in a single transaction.
func (p *purchaseStore) Load(ctx context.Context, ds domain.Dataset) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchases`); err != nil {
		return fmt.Errorf("clear purchases: %w", err)
	}

	records := make([]store.PurchaseRecord, 0, ds.Len())
	for i, row := range ds.Rows() {
		records = append(records, adapters.MapDomainPurchaseToStoreRecord(int64(i), row))
	}
	if err := p.Add(duckdb.WithTransaction(ctx, tx), records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	p.seasons = ds.Seasons()
	return nil
}

func (p *purchaseStore) Add(ctx context.Context, records []store.PurchaseRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO purchases (
			row_id, customer_id, age, gender, category, item, amount, season, extra
		) VALUES (
			?, ?, ?, ?, ?, ?, CAST(? AS DECIMAL(18, 4)), ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = p.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		// nil maps are stored as JSON null.
		extra, err := json.Marshal(record.Extra)
		if err != nil {
			return fmt.Errorf("marshal extra fields: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			record.RowID,
			record.CustomerID,
			record.Age,
			record.Gender,
			record.Category,
			record.Item,
			record.Amount,
			record.Season,
			string(extra),
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", record.RowID, err)
		}
	}

	return nil
}

func (p *purchaseStore) Query(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, domain.Aggregates, error) {
	view := domain.FilteredView{
		Rows:            make([]domain.Purchase, 0),
		EmptySelections: spec.EmptySelections(),
	}
	if len(view.EmptySelections) > 0 {
		return view, dashboard.Aggregate(view, p.seasons, p.settings), nil
	}

	where, args := whereClause(spec)

	rows, err := p.filter(ctx, where, args)
	if err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}
	view.Rows = rows
	total := view.Len()

	agg := domain.Aggregates{
		Total:        total,
		AgeHistogram: dashboard.AgeHistogram(view, p.settings.HistogramBins),
	}

	if agg.ByCategory, err = p.countBy(ctx, "category", where, args, total); err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}
	if agg.ByItem, err = p.countBy(ctx, "item", where, args, total); err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}
	if agg.ByGender, err = p.countBy(ctx, "gender", where, args, total); err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}
	if agg.MeanBySeason, err = p.meanBySeason(ctx, where, args); err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}
	if agg.MeanByGender, err = p.meanByGender(ctx, where, args); err != nil {
		return domain.FilteredView{}, domain.Aggregates{}, err
	}

	return view, agg, nil
}

func (p *purchaseStore) filter(ctx context.Context, where string, args []any) ([]domain.Purchase, error) {
	query := `
		SELECT row_id, COALESCE(customer_id, ''), age, gender, category, item,
			CAST(amount AS VARCHAR), season, CAST(extra AS VARCHAR)
		FROM purchases
		WHERE ` + where + `
		ORDER BY row_id
	`
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Purchase, 0)
	for rows.Next() {
		var (
			record store.PurchaseRecord
			extra  sql.NullString
		)
		err := rows.Scan(
			&record.RowID,
			&record.CustomerID,
			&record.Age,
			&record.Gender,
			&record.Category,
			&record.Item,
			&record.Amount,
			&record.Season,
			&extra,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &record.Extra); err != nil {
				return nil, fmt.Errorf("unmarshal extra fields of row %d: %w", record.RowID, err)
			}
		}

		purchase, err := adapters.MapStoreRecordToDomainPurchase(record)
		if err != nil {
			return nil, err
		}
		result = append(result, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return result, nil
}

// countBy groups the filtered rows by column. column must be a trusted identifier.
func (p *purchaseStore) countBy(ctx context.Context, column, where string, args []any, total int) ([]domain.Count, error) {
	totals, err := p.groupTotals(ctx, column, where, args)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(totals))
	for _, t := range totals {
		counts[t.Key] = t.Count
	}
	return dashboard.NewCounts(counts, total), nil
}

func (p *purchaseStore) meanBySeason(ctx context.Context, where string, args []any) ([]domain.SeasonMean, error) {
	totals, err := p.groupTotals(ctx, "season", where, args)
	if err != nil {
		return nil, err
	}
	bySeason := make(map[string]store.GroupTotal, len(totals))
	for _, t := range totals {
		bySeason[t.Key] = t
	}

	result := make([]domain.SeasonMean, 0, len(p.seasons))
	for _, season := range p.seasons {
		mean, err := toMean(bySeason[season])
		if err != nil {
			return nil, err
		}
		result = append(result, domain.SeasonMean{Season: season, Mean: mean})
	}
	return result, nil
}

func (p *purchaseStore) meanByGender(ctx context.Context, where string, args []any) (domain.GenderComparison, error) {
	male, err := p.genderTotal(ctx, "Male", where, args)
	if err != nil {
		return domain.GenderComparison{}, err
	}
	female, err := p.genderTotal(ctx, "Female", where, args)
	if err != nil {
		return domain.GenderComparison{}, err
	}

	var cmp domain.GenderComparison
	if cmp.Male, err = toMean(male); err != nil {
		return domain.GenderComparison{}, err
	}
	if cmp.Female, err = toMean(female); err != nil {
		return domain.GenderComparison{}, err
	}
	return cmp, nil
}

func (p *purchaseStore) genderTotal(ctx context.Context, gender, where string, args []any) (store.GroupTotal, error) {
	match := "contains(gender, ?)"
	if p.settings.GenderMatch == dashboard.GenderMatchExact {
		match = "gender = ?"
	}

	query := `
		SELECT COUNT(*), CAST(COALESCE(SUM(amount), 0) AS VARCHAR)
		FROM purchases
		WHERE ` + where + ` AND ` + match

	total := store.GroupTotal{Key: gender}
	err := p.db.QueryRowContext(ctx, query, append(slices.Clip(args), gender)...).Scan(&total.Count, &total.Sum)
	if err != nil {
		return store.GroupTotal{}, fmt.Errorf("query %s purchase totals: %w", strings.ToLower(gender), err)
	}
	return total, nil
}

func (p *purchaseStore) groupTotals(ctx context.Context, column, where string, args []any) ([]store.GroupTotal, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*), CAST(SUM(amount) AS VARCHAR)
		FROM purchases
		WHERE %[2]s
		GROUP BY %[1]s
	`, column, where)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("group purchases by %s: %w", column, err)
	}
	defer rows.Close()

	totals := make([]store.GroupTotal, 0)
	for rows.Next() {
		var t store.GroupTotal
		if err := rows.Scan(&t.Key, &t.Count, &t.Sum); err != nil {
			return nil, fmt.Errorf("scan %s group: %w", column, err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s groups: %w", column, err)
	}
	return totals, nil
}

func toMean(t store.GroupTotal) (domain.Mean, error) {
	if t.Count == 0 {
		return domain.Mean{}, nil
	}
	sum, err := decimal.NewFromString(t.Sum)
	if err != nil {
		return domain.Mean{}, fmt.Errorf("parse sum %q: %w", t.Sum, err)
	}
	return dashboard.NewMean(sum, t.Count), nil
}

// whereClause renders the filter predicates; every membership list must be non-empty.
func whereClause(spec domain.FilterSpec) (string, []any) {
	clauses := []string{
		"age BETWEEN ? AND ?",
		"amount BETWEEN CAST(? AS DECIMAL(18, 4)) AND CAST(? AS DECIMAL(18, 4))",
	}
	// Stored amounts have at most domain.AmountScale places; bounds are tightened to that scale.
	args := []any{
		spec.Age.Min, spec.Age.Max,
		spec.Amount.Min.RoundCeil(domain.AmountScale).String(),
		spec.Amount.Max.RoundFloor(domain.AmountScale).String(),
	}

	for _, m := range []struct {
		column string
		values []string
	}{
		{"gender", spec.Genders},
		{"category", spec.Categories},
		{"item", spec.Items},
	} {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(m.values)), ",")
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", m.column, placeholders))
		for _, v := range m.values {
			args = append(args, v)
		}
	}

	return strings.Join(clauses, " AND "), args
}
