package news

import "strconv"

// ArticleViews is a row of the most-viewed articles report.
type ArticleViews struct {
	Title string `gorm:"column:title"`
	Views int64  `gorm:"column:views"`
}

// Cells renders the row for table output.
func (a ArticleViews) Cells() []string {
	return []string{a.Title, strconv.FormatInt(a.Views, 10)}
}

// AuthorViews is a row of the most-popular authors report.
type AuthorViews struct {
	Name  string `gorm:"column:name"`
	Views int64  `gorm:"column:views"`
}

// Cells renders the row for table output.
func (a AuthorViews) Cells() []string {
	return []string{a.Name, strconv.FormatInt(a.Views, 10)}
}

// FailureDay is a calendar day on which more than one percent of requests failed.
type FailureDay struct {
	// Day is formatted as YYYY-MM-DD.
	Day string `gorm:"column:day"`
	// FailedPercent is already rounded to two decimal places by the query.
	FailedPercent float64 `gorm:"column:failed_percent"`
}

// Cells renders the row for table output. The percentage keeps two decimals
// so 2.5 prints as 2.50.
func (f FailureDay) Cells() []string {
	return []string{f.Day, strconv.FormatFloat(f.FailedPercent, 'f', 2, 64)}
}
