package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/solenne/boutique/internal/data/pgxutil"
	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/ports"
)

// ProfileRepo provides database operations for user profiles.
// It implements ports.ProfileStore for the request gate's role lookup.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// GetByUserID retrieves a profile by its owning user ID.
// A missing row is reported as ports.ErrProfileNotFound.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*domainauth.Profile, error) {
	var profile domainauth.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, profileGetByUserIDQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by user ID: %w", err)
	}
	return &profile, nil
}

// Upsert creates the profile row for a user on first login, or refreshes the
// full name on subsequent logins. The role column is never touched here; role
// grants are an operator action.
func (r *ProfileRepo) Upsert(ctx context.Context, userID, fullName string) (*domainauth.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user ID is required")
	}

	var profile domainauth.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO profiles (user_id, role, full_name, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE SET full_name = EXCLUDED.full_name
			RETURNING user_id, role, full_name, created_at
		`, userID, domainauth.RoleMember, strings.TrimSpace(fullName), r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		profile, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.Profile])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &profile, nil
}

// SetRole updates a user's role. Returns false when no profile row exists.
func (r *ProfileRepo) SetRole(ctx context.Context, userID string, role domainauth.Role) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `UPDATE profiles SET role = $1 WHERE user_id = $2`, role, userID)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to set profile role: %w", err)
	}
	return affected > 0, nil
}

const profileGetByUserIDQuery = `
	SELECT user_id, role, full_name, created_at
	FROM profiles
	WHERE user_id = $1`
