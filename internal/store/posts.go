package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bossnaboss212/center/internal/model"
)

// CreatePost stores an announcement.
func CreatePost(ctx context.Context, db *sql.DB, text string) (*model.Post, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO posts (text) VALUES (?)`, text)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting post id: %w", err)
	}

	p := &model.Post{}
	err = db.QueryRowContext(ctx,
		`SELECT id, text, created_at FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Text, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return p, nil
}

// ListRecentPosts returns up to limit posts, newest first.
func ListRecentPosts(ctx context.Context, db *sql.DB, limit int) ([]model.Post, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, text, created_at FROM posts ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Text, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// LatestPost returns the most recent post, or nil when there is none.
func LatestPost(ctx context.Context, db *sql.DB) (*model.Post, error) {
	posts, err := ListRecentPosts(ctx, db, 1)
	if err != nil || len(posts) == 0 {
		return nil, err
	}
	return &posts[0], nil
}
