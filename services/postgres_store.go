package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kindred_server/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSchema creates the profiles and matches tables. The UNIQUE and CHECK
// constraints on matches are what RequestMatch relies on under concurrency.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id           TEXT PRIMARY KEY,
	is_active    BOOLEAN     NOT NULL DEFAULT TRUE,
	is_searching BOOLEAN     NOT NULL DEFAULT FALSE,
	name         TEXT        NOT NULL DEFAULT '',
	bio          TEXT        NOT NULL DEFAULT '',
	age          INTEGER     NOT NULL DEFAULT 0,
	gender       TEXT        NOT NULL DEFAULT '',
	location     TEXT        NOT NULL DEFAULT '',
	interests    TEXT[]      NOT NULL DEFAULT '{}',
	photos       TEXT[]      NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS profiles_searching_idx
	ON profiles (id) WHERE is_searching AND is_active;

CREATE TABLE IF NOT EXISTS matches (
	id          UUID PRIMARY KEY,
	profile1_id TEXT             NOT NULL REFERENCES profiles (id),
	profile2_id TEXT             NOT NULL REFERENCES profiles (id),
	status      TEXT             NOT NULL DEFAULT 'pending'
	            CHECK (status IN ('pending', 'matched', 'rejected', 'blocked')),
	match_score DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (match_score BETWEEN 0 AND 1),
	created_at  TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
	CONSTRAINT matches_canonical_order CHECK (profile1_id COLLATE "C" < profile2_id COLLATE "C"),
	CONSTRAINT matches_pair_unique UNIQUE (profile1_id, profile2_id)
);

CREATE INDEX IF NOT EXISTS matches_profile2_idx ON matches (profile2_id);
`

const profileColumns = `id, is_active, is_searching, name, bio, age, gender, location,
	interests, photos, created_at, updated_at`

// PostgresStore implements Store on PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a PostgresStore backed by pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies PostgresSchema. Safe to run on every start.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.IsActive, &p.IsSearching, &p.Name, &p.Bio, &p.Age, &p.Gender, &p.Location,
		&p.Interests, &p.Photos, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) SetSearching(ctx context.Context, profileID string, searching bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET is_searching = $1, updated_at = NOW() WHERE id = $2`,
		searching, profileID,
	)
	if err != nil {
		return fmt.Errorf("setSearching: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) FindSearchingCandidate(ctx context.Context, excludeID string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE is_searching AND is_active AND id <> $1
		 LIMIT 1`,
		excludeID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("findSearchingCandidate: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateMatch(ctx context.Context, m models.Match) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches (id, profile1_id, profile2_id, status, match_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Profile1ID, m.Profile2ID, string(m.Status), m.MatchScore, m.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrMatchExists
	}
	if err != nil {
		return fmt.Errorf("createMatch: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearSearching(ctx context.Context, profile1ID, profile2ID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET is_searching = FALSE, updated_at = NOW() WHERE id IN ($1, $2)`,
		profile1ID, profile2ID,
	)
	if err != nil {
		return fmt.Errorf("clearSearching: %w", err)
	}
	return clearedBoth(tag)
}

// clearedBoth maps an UPDATE that touched fewer than two rows to ErrProfileNotFound.
func clearedBoth(tag pgconn.CommandTag) error {
	if tag.RowsAffected() < 2 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *PostgresStore) CreateProfile(ctx context.Context, p models.Profile) error {
	interests, photos := p.Interests, p.Photos
	if interests == nil {
		interests = []string{}
	}
	if photos == nil {
		photos = []string{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (id, is_active, is_searching, name, bio, age, gender, location, interests, photos)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.IsActive, p.IsSearching, p.Name, p.Bio, p.Age, p.Gender, p.Location, interests, photos,
	)
	if isUniqueViolation(err) {
		return ErrProfileExists
	}
	if err != nil {
		return fmt.Errorf("createProfile: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getProfile: %w", err)
	}
	return p, nil
}

// UpdateProfile writes the set fields of update. Deactivating a profile also clears is_searching.
func (s *PostgresStore) UpdateProfile(ctx context.Context, profileID string, update models.ProfileUpdate) (*models.Profile, error) {
	query, args := buildPostgresProfileUpdate(profileID, update)

	p, err := scanProfile(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updateProfile: %w", err)
	}
	return p, nil
}

// buildPostgresProfileUpdate returns an UPDATE ... RETURNING statement for the set
// fields of update. The profile id is always the last argument.
func buildPostgresProfileUpdate(profileID string, update models.ProfileUpdate) (string, []interface{}) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Bio != nil {
		add("bio", *update.Bio)
	}
	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	if update.Location != nil {
		add("location", *update.Location)
	}
	if update.Interests != nil {
		add("interests", *update.Interests)
	}
	if update.Photos != nil {
		add("photos", *update.Photos)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
		if !*update.IsActive {
			sets = append(sets, "is_searching = FALSE")
		}
	}

	args = append(args, profileID)
	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileColumns)
	return query, args
}

func (s *PostgresStore) ListMatches(ctx context.Context, profileID string) ([]models.Match, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, profile1_id, profile2_id, status, match_score, created_at
		 FROM matches
		 WHERE profile1_id = $1 OR profile2_id = $1
		 ORDER BY created_at DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("listMatches query: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var (
			m      models.Match
			status string
		)
		if err := rows.Scan(&m.ID, &m.Profile1ID, &m.Profile2ID, &status, &m.MatchScore, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("listMatches scan: %w", err)
		}
		m.Status = models.MatchStatus(status)
		m.PairKey = models.PairKey(m.Profile1ID, m.Profile2ID)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listMatches rows: %w", err)
	}
	return matches, nil
}

// isUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
