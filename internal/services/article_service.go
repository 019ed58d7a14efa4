package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/models"
)

// ArticleServiceProvider defines the interface for article services.
type ArticleServiceProvider interface {
	CreateArticle(ctx context.Context, article models.Article) (models.Article, error)
	GetArticlesByOwner(ctx context.Context, ownerID string) ([]models.Article, error)
	GetArticleByID(ctx context.Context, id string) (models.Article, error)
	UpdateArticle(ctx context.Context, id string, update models.ArticleUpdate) error
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleService persists articles.
type ArticleService struct {
	db  *sql.DB
	now func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *sql.DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

const articleColumns = "id, parent_id, title, content, category, date_created"

// CreateArticle assigns an ID and creation date and saves the article.
func (s *ArticleService) CreateArticle(ctx context.Context, article models.Article) (models.Article, error) {
	article.ID = uuid.New().String()
	if article.DateCreated.IsZero() {
		article.DateCreated = s.now().UTC().Truncate(time.Millisecond)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO articles ("+articleColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		article.ID, article.Parent, article.Title, article.Content, article.Category, article.DateCreated)
	if err != nil {
		return models.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return article, nil
}

// GetArticlesByOwner lists an owner's articles, newest first.
func (s *ArticleService) GetArticlesByOwner(ctx context.Context, ownerID string) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE parent_id = ? ORDER BY date_created DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

// GetArticleByID retrieves a single article by its ID.
func (s *ArticleService) GetArticleByID(ctx context.Context, id string) (models.Article, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, apperr.ErrNotFound
		}
		return models.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return article, nil
}

// UpdateArticle sets the non-nil fields of update on the article.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, update models.ArticleUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}

	if len(sets) == 0 {
		// Nothing to write, but a missing article is still an error.
		_, err := s.GetArticleByID(ctx, id)
		return err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, "UPDATE articles SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}
	return requireOneRow(res)
}

// DeleteArticle removes an article.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// scanArticle is a helper function to scan a single row into an Article struct.
func scanArticle(scanner interface{ Scan(...any) error }) (models.Article, error) {
	var article models.Article
	err := scanner.Scan(
		&article.ID,
		&article.Parent,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.DateCreated,
	)
	if err != nil {
		return models.Article{}, err
	}
	return article, nil
}
