package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// FormSession is the persisted state of an in-progress conversation form.
type FormSession struct {
	ConversationID int64
	Flow           string
	Step           int
	Values         map[string]string
	UpdatedAt      time.Time
}

// GetFormSession returns the session for a conversation, or nil when none is
// stored or the stored one is older than ttl. A zero ttl never expires.
func GetFormSession(ctx context.Context, db *sql.DB, conversationID int64, ttl time.Duration) (*FormSession, error) {
	s := &FormSession{ConversationID: conversationID}
	var data string
	err := db.QueryRowContext(ctx,
		`SELECT flow, step, data, updated_at FROM form_sessions WHERE conversation_id = ?`,
		conversationID,
	).Scan(&s.Flow, &s.Step, &data, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting form session: %w", err)
	}

	if ttl > 0 && time.Since(s.UpdatedAt) > ttl {
		return nil, nil
	}

	if err := json.Unmarshal([]byte(data), &s.Values); err != nil {
		return nil, fmt.Errorf("decoding form session: %w", err)
	}
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	return s, nil
}

// SaveFormSession replaces whatever session the conversation had.
func SaveFormSession(ctx context.Context, db *sql.DB, s *FormSession) error {
	values := s.Values
	if values == nil {
		values = map[string]string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding form session: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO form_sessions (conversation_id, flow, step, data, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (conversation_id) DO UPDATE SET
		     flow = excluded.flow,
		     step = excluded.step,
		     data = excluded.data,
		     updated_at = excluded.updated_at`,
		s.ConversationID, s.Flow, s.Step, string(data),
	)
	if err != nil {
		return fmt.Errorf("saving form session: %w", err)
	}
	return nil
}

// DeleteFormSession clears a conversation's session. Missing sessions are ignored.
func DeleteFormSession(ctx context.Context, db *sql.DB, conversationID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM form_sessions WHERE conversation_id = ?`, conversationID,
	)
	if err != nil {
		return fmt.Errorf("deleting form session: %w", err)
	}
	return nil
}
