package messages

import (
	"context"

	"github.com/dmitrijs2005/tourgo/internal/dbx"
	"github.com/dmitrijs2005/tourgo/internal/server/models"
	"github.com/dmitrijs2005/tourgo/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) error {
	query :=
		`INSERT INTO messages (message_id, user_name_send, user_name_receive, message_content, type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.Sender, m.Receiver, m.Content, string(m.Type)).Scan(&m.CreatedAt)
	return pgerr.Wrap(err)
}

func (r *PostgresRepository) ListByReceiver(ctx context.Context, receiver string) ([]*models.Message, error) {
	query :=
		`SELECT message_id, user_name_send, user_name_receive, message_content, type, is_read, created_at
		 FROM messages
		 WHERE user_name_receive = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, receiver)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m := &models.Message{}
		var typ string
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.Content, &typ, &m.Read, &m.CreatedAt); err != nil {
			return nil, pgerr.Wrap(err)
		}
		m.Type = models.MessageType(typ)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, receiver string) (bool, error) {
	query := `UPDATE messages SET is_read = TRUE WHERE message_id = $1 AND user_name_receive = $2`

	n, err := dbx.ExecAffected(ctx, r.db, query, id, receiver)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, receiver string) (int64, error) {
	query := `UPDATE messages SET is_read = TRUE WHERE user_name_receive = $1 AND is_read = FALSE`

	n, err := dbx.ExecAffected(ctx, r.db, query, receiver)
	if err != nil {
		return 0, pgerr.Wrap(err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, receiver string) (bool, error) {
	query := `DELETE FROM messages WHERE message_id = $1 AND user_name_receive = $2`

	n, err := dbx.ExecAffected(ctx, r.db, query, id, receiver)
	if err != nil {
		return false, pgerr.Wrap(err)
	}
	return n == 1, nil
}
