package store

import (
	"context"
	"database/sql"
	"fmt"

	"visitlens/api/models"
)

// ContentStore reads the contact requests and blog posts owned by the CMS.
type ContentStore struct {
	db *sql.DB
}

func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListContactRequests(ctx context.Context) ([]models.ContactRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, created_at
		FROM contact_requests
		ORDER BY created_at ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.ContactRequest, 0)
	for rows.Next() {
		var c models.ContactRequest
		if err := rows.Scan(&c.ID, &c.Status, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan contact request: %w", err)
		}
		requests = append(requests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact requests: %w", err)
	}
	return requests, nil
}

func (s *ContentStore) ListBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, created_at, published_at
		FROM blog_posts
		ORDER BY created_at ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		var (
			p         models.BlogPost
			published sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.CreatedAt, &published); err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		if published.Valid {
			at := published.Time
			p.PublishedAt = &at
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog posts: %w", err)
	}
	return posts, nil
}
