package news

// Each report is a single read-only statement with its intermediate steps as CTEs.

// topArticlesSQL limits to three paths before joining, so a popular path
// without a matching article shrinks the result instead of promoting the
// fourth path.
const topArticlesSQL = `
WITH top_paths AS (
	SELECT path, COUNT(*) AS views
	FROM log
	WHERE path LIKE '/article/%' AND status LIKE '%200%'
	GROUP BY path
	ORDER BY views DESC
	LIMIT 3
),
top_slugs AS (
	SELECT REPLACE(path, '/article/', '') AS slug, views
	FROM top_paths
)
SELECT articles.title AS title, top_slugs.views AS views
FROM articles
JOIN top_slugs ON articles.slug = top_slugs.slug
GROUP BY articles.title, top_slugs.views
ORDER BY top_slugs.views DESC`

// topAuthorsSQL counts every article request whatever its status.
const topAuthorsSQL = `
WITH slug_views AS (
	SELECT REPLACE(path, '/article/', '') AS slug, COUNT(*) AS views
	FROM log
	WHERE path LIKE '/article/%'
	GROUP BY path
),
author_views AS (
	SELECT articles.author AS author, SUM(slug_views.views) AS views
	FROM articles
	JOIN slug_views ON articles.slug = slug_views.slug
	GROUP BY articles.author
)
SELECT authors.name AS name, CAST(author_views.views AS BIGINT) AS views
FROM authors
JOIN author_views ON authors.id = author_views.author
GROUP BY authors.name, author_views.views
ORDER BY author_views.views DESC`

// failureDaysHead and failureDaysTail surround the dialect's day expression.
// Days without any successful request count s200 as zero.
const (
	failureDaysHead = `
WITH daily AS (
	SELECT `
	failureDaysTail = ` AS day, status
	FROM log
),
succeeded AS (
	SELECT day, COUNT(*) AS s200
	FROM daily
	WHERE status LIKE '%200%'
	GROUP BY day
),
failed AS (
	SELECT day, COUNT(*) AS s404
	FROM daily
	WHERE status LIKE '%404%'
	GROUP BY day
),
totals AS (
	SELECT failed.day AS day, failed.s404 AS s404, failed.s404 + COALESCE(succeeded.s200, 0) AS total
	FROM failed
	LEFT JOIN succeeded ON failed.day = succeeded.day
),
rates AS (
	SELECT day, 100.0 * s404 / total AS percentage
	FROM totals
)
SELECT day, ROUND(percentage, 2) AS failed_percent
FROM rates
WHERE percentage > 1.0
ORDER BY percentage DESC`
)

const (
	postgresDayExpr = "to_char(CAST(time AS DATE), 'YYYY-MM-DD')"
	sqliteDayExpr   = "date(time)"
)

func failureDaysQuery(dialect string) string {
	dayExpr := postgresDayExpr
	if dialect == "sqlite" {
		dayExpr = sqliteDayExpr
	}

	return failureDaysHead + dayExpr + failureDaysTail
}
