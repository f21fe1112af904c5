package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/jobcatch"
)

// Compile-time interface verification.
var _ jobcatch.OfferService = (*OfferService)(nil)

const offerColumns = `offer_key, offer_id, ref, feed_id, url, title, company, contract,
	location, department, description, salary, salary_unit, salary_min, salary_max,
	salary_nbperiod, salary_bonus, salary_minbonus, salary_maxbonus,
	date_pub, date_add, last_update, state`

// OfferService implements jobcatch.OfferService using one table per source.
type OfferService struct {
	db  *DB
	now func() time.Time
}

// NewOfferService creates a new OfferService.
func NewOfferService(db *DB) *OfferService {
	return &OfferService{db: db, now: time.Now}
}

// EnsureSource registers source and creates its offer table if absent.
func (s *OfferService) EnsureSource(ctx context.Context, source string) error {
	table, err := tableName(source)
	if err != nil {
		return err
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			offer_key TEXT PRIMARY KEY,
			offer_id TEXT NOT NULL DEFAULT '',
			ref TEXT NOT NULL DEFAULT '',
			feed_id TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			contract TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			department TEXT,
			description TEXT NOT NULL DEFAULT '',
			salary TEXT,
			salary_unit TEXT NOT NULL DEFAULT '',
			salary_min REAL NOT NULL DEFAULT 0,
			salary_max REAL NOT NULL DEFAULT 0,
			salary_nbperiod INTEGER NOT NULL DEFAULT 0,
			salary_bonus TEXT NOT NULL DEFAULT '',
			salary_minbonus REAL NOT NULL DEFAULT 0,
			salary_maxbonus REAL NOT NULL DEFAULT 0,
			date_pub TEXT NOT NULL,
			date_add TEXT NOT NULL,
			last_update TEXT NOT NULL,
			state TEXT NOT NULL DEFAULT 'ACTIVE'
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_url ON %[1]s(url);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_state ON %[1]s(state);
	`, table)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sources (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, source, formatRFC3339(s.now()))
	return err
}

// UpsertIfAbsent inserts the offer unless its key is already stored.
func (s *OfferService) UpsertIfAbsent(ctx context.Context, offer *jobcatch.Offer) (jobcatch.UpsertResult, error) {
	if err := offer.Validate(); err != nil {
		return 0, err
	}
	table, err := s.table(ctx, offer.Source)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (`+offerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(offer_key) DO NOTHING
	`, offer.Key(), offer.OfferID, offer.Ref, offer.FeedID, offer.URL, offer.Title, offer.Company,
		offer.Contract, offer.Location, nullString(offer.Department), offer.Description,
		nullString(offer.SalaryRaw), string(offer.Salary.Unit), offer.Salary.Min, offer.Salary.Max,
		offer.Salary.PeriodCount, offer.Salary.Bonus, offer.Salary.BonusMin, offer.Salary.BonusMax,
		formatRFC3339(offer.DatePublished), formatRFC3339(offer.DateIngested),
		formatRFC3339(offer.LastUpdate), string(offer.State))
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return jobcatch.AlreadyExists, nil
	}
	return jobcatch.Inserted, nil
}

// Exists reports whether an offer with key is stored for source.
func (s *OfferService) Exists(ctx context.Context, source, key string) (bool, error) {
	table, err := s.table(ctx, source)
	if err != nil {
		return false, err
	}

	var n int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE offer_key = ?", key).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetState changes the lifecycle state of a stored offer.
func (s *OfferService) SetState(ctx context.Context, source, key string, state jobcatch.State) error {
	if !state.Valid() {
		return jobcatch.Errorf(jobcatch.EINVALID, "invalid state %q", state)
	}
	table, err := s.table(ctx, source)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "UPDATE "+table+" SET state = ? WHERE offer_key = ?", string(state), key)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return jobcatch.Errorf(jobcatch.ENOTFOUND, "offer %q not found in %s", key, source)
	}
	return nil
}

// FindOfferByKey retrieves an offer by source and key.
func (s *OfferService) FindOfferByKey(ctx context.Context, source, key string) (*jobcatch.Offer, error) {
	table, err := s.table(ctx, source)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+offerColumns+" FROM "+table+" WHERE offer_key = ?", key)
	offer, err := scanOffer(row, source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, jobcatch.Errorf(jobcatch.ENOTFOUND, "offer %q not found in %s", key, source)
	}
	return offer, err
}

// FindOffers retrieves offers matching the filter, newest publication first.
func (s *OfferService) FindOffers(ctx context.Context, filter jobcatch.OfferFilter) ([]*jobcatch.Offer, error) {
	table, err := s.table(ctx, filter.Source)
	if err != nil {
		return nil, err
	}

	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + offerColumns + " FROM " + table + " WHERE 1=1")

	if filter.State != nil {
		query.WriteString(" AND state = ?")
		args = append(args, string(*filter.State))
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY date_pub DESC, offer_key")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := []*jobcatch.Offer{}
	for rows.Next() {
		offer, err := scanOffer(rows, filter.Source)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}

	return offers, rows.Err()
}

// Sources returns the registered sources in name order.
func (s *OfferService) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sources ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		sources = append(sources, name)
	}
	return sources, rows.Err()
}

// table returns the offer table of a registered source.
// Returns ENOTFOUND if EnsureSource was never called for it.
func (s *OfferService) table(ctx context.Context, source string) (string, error) {
	table, err := tableName(source)
	if err != nil {
		return "", err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources WHERE name = ?", source).Scan(&n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", jobcatch.Errorf(jobcatch.ENOTFOUND, "source %q not found", source)
	}
	return table, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOffer(row scanner, source string) (*jobcatch.Offer, error) {
	var (
		offer                        jobcatch.Offer
		key, unit, state             string
		department, salaryRaw        sql.NullString
		datePub, dateAdd, lastUpdate string
	)

	err := row.Scan(&key, &offer.OfferID, &offer.Ref, &offer.FeedID, &offer.URL, &offer.Title,
		&offer.Company, &offer.Contract, &offer.Location, &department, &offer.Description,
		&salaryRaw, &unit, &offer.Salary.Min, &offer.Salary.Max, &offer.Salary.PeriodCount,
		&offer.Salary.Bonus, &offer.Salary.BonusMin, &offer.Salary.BonusMax,
		&datePub, &dateAdd, &lastUpdate, &state)
	if err != nil {
		return nil, err
	}

	offer.Source = source
	offer.Department = stringPtr(department)
	offer.SalaryRaw = stringPtr(salaryRaw)
	offer.Salary.Unit = jobcatch.SalaryUnit(unit)
	offer.State = jobcatch.State(state)

	if offer.DatePublished, err = parseRFC3339(datePub, "date_pub"); err != nil {
		return nil, err
	}
	if offer.DateIngested, err = parseRFC3339(dateAdd, "date_add"); err != nil {
		return nil, err
	}
	if offer.LastUpdate, err = parseRFC3339(lastUpdate, "last_update"); err != nil {
		return nil, err
	}

	return &offer, nil
}
