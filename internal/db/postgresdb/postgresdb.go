// Package postgresdb provides a PostgreSQL-based implementation of the storage
// for users and their exercise logs. The schema is applied with goose from
// migrations embedded into the binary.
package postgresdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/exercisetracker/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// PostgresDB is a PostgreSQL-backed implementation of the exercise tracker storage.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables dropping all tables before migration.
// It is meant for test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New connects to the database, applies the embedded migrations and returns
// a ready PostgresDB.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(ctx); err != nil {
		_ = database.Close()
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `result.Ping()` calling: %w",
				err,
			)
	}

	if err := result.migrate(ctx, options.DBPreReset); err != nil {
		_ = database.Close()
		return nil, err
	}

	return result, nil
}

// migrate optionally drops the schema and then applies the embedded goose
// migrations.
func (db *PostgresDB) migrate(ctx context.Context, preReset bool) error {
	if preReset {
		if err := db.resetDB(ctx); err != nil {
			return fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/migrate(): error while `db.resetDB()` calling: %w",
				err,
			)
		}
	}

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/migrate(): error while `goose.SetDialect()` calling: %w",
			err,
		)
	}

	if err := goose.UpContext(ctx, db.database, migrationsDir); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/migrate(): error while `goose.UpContext()` calling: %w",
			err,
		)
	}

	return nil
}

// InsertUser stores a new user under a freshly generated UUID.
func (db *PostgresDB) InsertUser(ctx context.Context, username string) (models.User, error) {
	usr := models.User{
		ID:       uuid.New().String(),
		Username: username,
	}

	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		usr.ID,
		usr.Username,
	)
	if err != nil {
		return models.User{}, err
	}

	return usr, nil
}

// FindUserByID fetches a user by id. Ids that are not UUIDs cannot exist and
// are reported as not found without a round trip.
func (db *PostgresDB) FindUserByID(ctx context.Context, userID string) (models.User, bool, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return models.User{}, false, nil
	}

	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username FROM users WHERE id = $1`,
		userID,
	)
	var usr models.User
	err := row.Scan(&usr.ID, &usr.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, false, nil
		}
		return models.User{}, false, err
	}

	return usr, true, nil
}

// ListUsers returns all users in creation order.
func (db *PostgresDB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, username FROM users ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var usr models.User
		if err := rows.Scan(&usr.ID, &usr.Username); err != nil {
			return nil, err
		}
		result = append(result, usr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertExercise stores an exercise under a freshly generated UUID.
func (db *PostgresDB) InsertExercise(ctx context.Context, exercise models.Exercise) (models.Exercise, error) {
	exercise.ID = uuid.New().String()

	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO exercises (id, user_id, description, duration, date)
				VALUES ($1, $2, $3, $4, $5)
		`,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
	)
	if err != nil {
		return models.Exercise{}, err
	}

	return exercise, nil
}

// FindExercises translates query into a WHERE clause with an optional LIMIT.
func (db *PostgresDB) FindExercises(ctx context.Context, query models.LogQuery) ([]models.Exercise, error) {
	statement, args := buildFindExercisesQuery(query)

	rows, err := db.database.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var exercise models.Exercise
		err = rows.Scan(
			&exercise.ID,
			&exercise.UserID,
			&exercise.Description,
			&exercise.Duration,
			&exercise.Date,
		)
		if err != nil {
			return nil, err
		}
		exercise.Date = exercise.Date.UTC()
		result = append(result, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func buildFindExercisesQuery(query models.LogQuery) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{query.UserID}

	if query.DateFrom != nil {
		args = append(args, *query.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}

	if query.DateTo != nil {
		args = append(args, *query.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}

	statement := fmt.Sprintf(
		`SELECT id, user_id, description, duration, date FROM exercises WHERE %s ORDER BY date, seq`,
		strings.Join(conditions, " AND "),
	)

	if query.Limit > 0 {
		args = append(args, query.Limit)
		statement += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return statement, args
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}
