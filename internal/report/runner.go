package report

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"newslogs/app/internal/news"
)

// Titles and headings of the three reports, printed in this order.
const (
	TopArticlesTitle = "Query 1: The most popular three articles of all time"
	TopAuthorsTitle  = "Query 2: The most popular authors of all time"
	FailureDaysTitle = "Query 3: The days when more than 1% of requests failed"
)

var (
	topArticlesHeadings = []string{"Article", "Views"}
	topAuthorsHeadings  = []string{"Author", "Views"}
	failureDaysHeadings = []string{"Date", "% failed"}
)

// Options configures the report runner.
type Options struct {
	Repository news.Repository
	Printer    Printer
	Logger     *logrus.Logger
}

// Runner runs every report in a fixed order and prints each result.
type Runner struct {
	repo    news.Repository
	printer Printer
	logger  *logrus.Logger
}

type definition struct {
	name     string
	title    string
	headings []string
	fetch    func(ctx context.Context) ([][]string, error)
}

type cellRenderer interface {
	Cells() []string
}

// NewRunner constructs a Runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Repository == nil {
		return nil, eris.New("news repository is required")
	}
	if opts.Printer == nil {
		return nil, eris.New("table printer is required")
	}

	return &Runner{
		repo:    opts.Repository,
		printer: opts.Printer,
		logger:  opts.Logger,
	}, nil
}

// Run executes the reports sequentially. The first failure stops the run;
// tables printed before it are left as they are.
func (r *Runner) Run(ctx context.Context) error {
	for _, def := range r.definitions() {
		if err := r.runOne(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, def definition) error {
	fields := logrus.Fields{"component": "report", "report": def.name}
	r.debug(fields, "running report")

	rows, err := def.fetch(ctx)
	if err != nil {
		return eris.Wrapf(err, "running report %s", def.name)
	}

	table := Table{Title: def.title, Headings: def.headings, Rows: rows}
	if err := r.printer.Print(table); err != nil {
		return eris.Wrapf(err, "printing report %s", def.name)
	}

	fields["rows"] = len(rows)
	r.debug(fields, "report printed")
	return nil
}

func (r *Runner) definitions() []definition {
	return []definition{
		{
			name:     "top_articles",
			title:    TopArticlesTitle,
			headings: topArticlesHeadings,
			fetch: func(ctx context.Context) ([][]string, error) {
				items, err := r.repo.TopArticles(ctx)
				if err != nil {
					return nil, err
				}
				return cells(items), nil
			},
		},
		{
			name:     "top_authors",
			title:    TopAuthorsTitle,
			headings: topAuthorsHeadings,
			fetch: func(ctx context.Context) ([][]string, error) {
				items, err := r.repo.TopAuthors(ctx)
				if err != nil {
					return nil, err
				}
				return cells(items), nil
			},
		},
		{
			name:     "failure_days",
			title:    FailureDaysTitle,
			headings: failureDaysHeadings,
			fetch: func(ctx context.Context) ([][]string, error) {
				items, err := r.repo.FailureDays(ctx)
				if err != nil {
					return nil, err
				}
				return cells(items), nil
			},
		},
	}
}

func cells[T cellRenderer](items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Cells())
	}
	return rows
}

func (r *Runner) debug(fields logrus.Fields, message string) {
	if r.logger == nil {
		return
	}
	r.logger.WithFields(fields).Debug(message)
}
