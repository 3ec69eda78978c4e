package form

import (
	"context"
	"database/sql"
	"time"

	"github.com/bossnaboss212/center/internal/store"
)

// SQLStore keeps sessions in the form_sessions table so a form survives a
// restart. Sessions untouched for longer than TTL are treated as idle; a
// zero TTL keeps them forever.
type SQLStore struct {
	DB  *sql.DB
	TTL time.Duration
}

// Load implements Store.
func (s *SQLStore) Load(ctx context.Context, conversationID int64) (*Session, error) {
	fs, err := store.GetFormSession(ctx, s.DB, conversationID, s.TTL)
	if err != nil || fs == nil {
		return nil, err
	}
	return &Session{
		ConversationID: fs.ConversationID,
		Flow:           fs.Flow,
		Step:           fs.Step,
		Values:         fs.Values,
	}, nil
}

// Save implements Store.
func (s *SQLStore) Save(ctx context.Context, sess *Session) error {
	return store.SaveFormSession(ctx, s.DB, &store.FormSession{
		ConversationID: sess.ConversationID,
		Flow:           sess.Flow,
		Step:           sess.Step,
		Values:         sess.Values,
	})
}

// Clear implements Store.
func (s *SQLStore) Clear(ctx context.Context, conversationID int64) error {
	return store.DeleteFormSession(ctx, s.DB, conversationID)
}
