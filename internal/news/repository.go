package news

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository answers the aggregate questions asked of the news log.
type Repository interface {
	TopArticles(ctx context.Context) ([]ArticleViews, error)
	TopAuthors(ctx context.Context) ([]AuthorViews, error)
	FailureDays(ctx context.Context) ([]FailureDay, error)
}

// GormRepository runs the report queries through a Gorm connection pool.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// TopArticles returns the three most viewed articles, most viewed first.
// Successful requests only. Order among equal counts is up to the database.
func (r *GormRepository) TopArticles(ctx context.Context) ([]ArticleViews, error) {
	var rows []ArticleViews
	if err := r.scan(ctx, topArticlesSQL, &rows); err != nil {
		r.logError(logrus.Fields{"report": "top_articles"}, err, "querying top articles")
		return nil, eris.Wrap(err, "querying top articles")
	}

	return rows, nil
}

// TopAuthors returns every author with at least one logged article request,
// ordered by total views descending.
func (r *GormRepository) TopAuthors(ctx context.Context) ([]AuthorViews, error) {
	var rows []AuthorViews
	if err := r.scan(ctx, topAuthorsSQL, &rows); err != nil {
		r.logError(logrus.Fields{"report": "top_authors"}, err, "querying top authors")
		return nil, eris.Wrap(err, "querying top authors")
	}

	return rows, nil
}

// FailureDays returns the days on which more than one percent of requests
// failed, worst day first.
func (r *GormRepository) FailureDays(ctx context.Context) ([]FailureDay, error) {
	query := failureDaysQuery(r.db.Dialector.Name())

	var rows []FailureDay
	if err := r.scan(ctx, query, &rows); err != nil {
		r.logError(logrus.Fields{"report": "failure_days"}, err, "querying failure days")
		return nil, eris.Wrap(err, "querying failure days")
	}

	return rows, nil
}

// scan runs the statement on a dedicated connection that is handed back to
// the pool before returning, including on failure.
func (r *GormRepository) scan(ctx context.Context, query string, dest any) error {
	return r.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return conn.Raw(query).Scan(dest).Error
	})
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
