package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/auth/store"
)

type passwordResetsRepo struct {
	db dbtx
}

const passwordResetColumns = `id, user_id, code, expires_at, consumed, created_at, updated_at`

func scanPasswordReset(row *sql.Row) (domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Code,
		&p.ExpiresAt,
		&p.Consumed,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_resets (`+passwordResetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.UserID, pr.Code, pr.ExpiresAt, pr.Consumed, pr.CreatedAt, pr.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *passwordResetsRepo) GetPasswordResetByUserAndCode(ctx context.Context, userID, code string) (domain.PasswordReset, error) {
	p, err := scanPasswordReset(r.db.QueryRowContext(ctx,
		`SELECT `+passwordResetColumns+` FROM password_resets WHERE user_id = ? AND code = ?`,
		userID, code))
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return p, nil
}

// ConsumePasswordReset is a compare-and-set: the WHERE clause guards on
// consumed = 0 so only one of two concurrent redemptions can win.
func (r *passwordResetsRepo) ConsumePasswordReset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE password_resets SET consumed = 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND consumed = 0`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < ?`, now)
	return err
}
