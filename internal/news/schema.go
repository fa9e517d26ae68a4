package news

import "time"

// LogEntry is a single web-server request recorded in the log table.
type LogEntry struct {
	ID     uint      `gorm:"primaryKey"`
	Path   string    `gorm:"type:text;not null;index"`
	Status string    `gorm:"type:text;not null"`
	Time   time.Time `gorm:"not null"`
}

// TableName defines the table name for the LogEntry model.
func (LogEntry) TableName() string {
	return "log"
}

// Article is a published news article keyed by slug.
type Article struct {
	ID     uint   `gorm:"primaryKey"`
	Slug   string `gorm:"type:text;uniqueIndex:idx_articles_slug;not null"`
	Title  string `gorm:"type:text;not null"`
	Author uint   `gorm:"not null;index"`
}

// TableName defines the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}

// Author writes articles.
type Author struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null"`
}

// TableName defines the table name for the Author model.
func (Author) TableName() string {
	return "authors"
}
