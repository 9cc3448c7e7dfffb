package rolniknysa

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested article or image does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a SQLite database holding the articles and images
// collections. Records are created once on upload; the only mutation
// afterwards is the per-article view counter.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets display reads proceed alongside view-counter writes; the
	// busy timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    src TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    img TEXT NOT NULL,
    content TEXT NOT NULL,
    tags TEXT NOT NULL,
    date INTEGER NOT NULL,
    author TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date DESC);

CREATE TABLE IF NOT EXISTS images (
    src TEXT PRIMARY KEY,
    original TEXT NOT NULL,
    mimetype TEXT NOT NULL,
    path TEXT NOT NULL,
    size INTEGER NOT NULL,
    date INTEGER NOT NULL,
    author TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0
);

CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(src UNINDEXED, title, content);
`)
	return err
}

const articleColumns = `src, title, img, content, tags, date, author, views`

// SaveArticle inserts an article. A colliding slug silently replaces the
// existing record; slug uniqueness is not checked up front.
func (s *Store) SaveArticle(a Article) error {
	img, err := json.Marshal(a.Img)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO articles (`+articleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Src, a.Title, string(img), a.Content, joinTags(a.Tags), a.Date.UnixNano(), a.Author, a.Stats.Views); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM articles_fts WHERE src = ?`, a.Src); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO articles_fts (src, title, content) VALUES (?, ?, ?)`,
		a.Src, a.Title, a.Content); err != nil {
		return err
	}
	return tx.Commit()
}

// GetArticle returns a single article by slug without touching its stats.
func (s *Store) GetArticle(src string) (Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE src = ?`, src)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return Article{}, ErrNotFound
	}
	return a, err
}

// GetArticleCountingView is the display-read path: it returns the article
// and persists a view-counter increment as part of the same call.
//
// The increment is read-modify-write, not atomic. Two concurrent display
// reads of the same slug can load the same base value and the later write
// overwrites the earlier one, losing a view.
func (s *Store) GetArticleCountingView(src string) (Article, error) {
	a, err := s.GetArticle(src)
	if err != nil {
		return Article{}, err
	}
	a.Stats.Views++
	if _, err := s.db.Exec(`UPDATE articles SET views = ? WHERE src = ?`, a.Stats.Views, src); err != nil {
		return Article{}, err
	}
	return a, nil
}

// RecentArticles returns up to n articles ordered by descending date.
// Fewer (possibly zero) are returned when the store holds fewer.
func (s *Store) RecentArticles(n int) ([]Article, error) {
	rows, err := s.db.Query(`SELECT `+articleColumns+` FROM articles ORDER BY date DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// ArticlesByTags returns articles whose tag set contains at least one of
// the given tags.
func (s *Store) ArticlesByTags(tags []string) ([]Article, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(tags))
	args := make([]any, 0, len(tags))
	for _, t := range tags {
		conds = append(conds, `instr(lower(tags), ?) > 0`)
		args = append(args, ","+strings.ToLower(strings.TrimSpace(t))+",")
	}
	rows, err := s.db.Query(`SELECT `+articleColumns+` FROM articles WHERE `+strings.Join(conds, " OR ")+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// SearchArticles runs a full-text match against title and content,
// best-ranked first. Ranking is whatever bm25 says it is.
func (s *Store) SearchArticles(query string) ([]Article, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT a.src, a.title, a.img, a.content, a.tags, a.date, a.author, a.views
		FROM articles_fts f JOIN articles a ON a.src = f.src
		WHERE f.articles_fts MATCH ?
		ORDER BY bm25(f.articles_fts)`, match)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// ArticlePreview returns the article with its content cut to limit runes.
// The ellipsis marker is appended only when something was actually cut.
func (s *Store) ArticlePreview(src string, limit int) (Article, error) {
	a, err := s.GetArticle(src)
	if err != nil {
		return Article{}, err
	}
	a.Content = previewText(a.Content, limit)
	return a, nil
}

// ArticleQuery is a composed-query specification accepted by FindArticles.
// The set is closed: BySlug, ByTagSet, ByFullText and ByFields.
type ArticleQuery interface {
	articleQuery()
}

// BySlug matches exactly one article by its slug.
type BySlug struct {
	Src string
}

// ByTagSet matches articles sharing at least one tag with the set.
type ByTagSet struct {
	Tags []string
}

// ByFullText matches articles by relevance against a query string.
type ByFullText struct {
	Query string
}

// ByFields is the generic filter/projection pair: optional author and date
// range filters, and a content-only projection.
type ByFields struct {
	Author      string
	After       time.Time
	Before      time.Time
	ContentOnly bool
}

func (BySlug) articleQuery()     {}
func (ByTagSet) articleQuery()   {}
func (ByFullText) articleQuery() {}
func (ByFields) articleQuery()   {}

// FindArticles resolves a composed query. An empty result is a valid
// outcome, not an error.
func (s *Store) FindArticles(q ArticleQuery) ([]Article, error) {
	switch q := q.(type) {
	case BySlug:
		a, err := s.GetArticle(q.Src)
		if err == ErrNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Article{a}, nil
	case ByTagSet:
		return s.ArticlesByTags(q.Tags)
	case ByFullText:
		return s.SearchArticles(q.Query)
	case ByFields:
		return s.findByFields(q)
	default:
		return nil, fmt.Errorf("unsupported article query %T", q)
	}
}

func (s *Store) findByFields(q ByFields) ([]Article, error) {
	cols := articleColumns
	if q.ContentOnly {
		cols = `src, '', '[]', content, ',', date, '', 0`
	}
	conds := []string{"1=1"}
	var args []any
	if q.Author != "" {
		conds = append(conds, "author = ?")
		args = append(args, q.Author)
	}
	if !q.After.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, q.After.UnixNano())
	}
	if !q.Before.IsZero() {
		conds = append(conds, "date < ?")
		args = append(args, q.Before.UnixNano())
	}
	rows, err := s.db.Query(`SELECT `+cols+` FROM articles WHERE `+strings.Join(conds, " AND ")+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// SaveImage inserts an uploaded image record. As with articles, a
// colliding slug replaces the previous record.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (src, original, mimetype, path, size, date, author, views) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.Src, img.Original, img.Mimetype, img.Path, img.Size, img.Meta.Date.UnixNano(), img.Meta.Author, img.Stats.Views)
	return err
}

// GetImage returns a single image record by slug.
func (s *Store) GetImage(src string) (Image, error) {
	var img Image
	var date int64
	err := s.db.QueryRow(`SELECT src, original, mimetype, path, size, date, author, views FROM images WHERE src = ?`, src).
		Scan(&img.Src, &img.Original, &img.Mimetype, &img.Path, &img.Size, &date, &img.Meta.Author, &img.Stats.Views)
	if err == sql.ErrNoRows {
		return Image{}, ErrNotFound
	}
	if err != nil {
		return Image{}, err
	}
	img.Meta.Date = time.Unix(0, date)
	return img, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var img, tags string
	var date int64
	if err := row.Scan(&a.Src, &a.Title, &img, &a.Content, &tags, &date, &a.Author, &a.Stats.Views); err != nil {
		return Article{}, err
	}
	if err := json.Unmarshal([]byte(img), &a.Img); err != nil {
		return Article{}, err
	}
	a.Tags = ParseTags(tags)
	a.Date = time.Unix(0, date)
	return a, nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	defer rows.Close()
	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// joinTags stores a tag list as a comma-delimited string (",a,b,") so that
// instr can match single tags. Tags are normalized to lowercase.
func joinTags(tags []string) string {
	normalized := make([]string, len(tags))
	for i, t := range tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ftsQuery quotes each whitespace-separated token and joins them with OR,
// so user input never reaches the FTS5 query parser as syntax.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " OR ")
}
