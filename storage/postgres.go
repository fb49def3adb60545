package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var UnexpectedDatabaseError = errors.New("unexpected-database-error")

const queryTimeout = 2 * time.Second

type PostgresWordRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresWordRepo(ctx context.Context, connString string) (*PostgresWordRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", UnexpectedDatabaseError, err)
	}
	return &PostgresWordRepo{pool: pool}, nil
}

func (repo *PostgresWordRepo) Close() {
	repo.pool.Close()
}

// Generate implements the game.RandomWordsGenerator interface.
// It returns up to count random words, or an empty slice if the query fails.
func (repo *PostgresWordRepo) Generate(count int) []string {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := repo.pool.Query(ctx, `SELECT word FROM words ORDER BY RANDOM() LIMIT $1`, count)
	if err != nil {
		log.Error().Err(err).Msg("failed to query random words")
		return []string{}
	}
	defer rows.Close()

	words := make([]string, 0, count)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			continue
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("failed to read random words")
	}

	return words
}

func (repo *PostgresWordRepo) CountWords(ctx context.Context) (int, error) {
	var n int
	err := repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM words`).Scan(&n)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", UnexpectedDatabaseError, err)
	}
	return n, nil
}

// AddWords inserts words, skipping ones already stored. It returns how many
// were new.
func (repo *PostgresWordRepo) AddWords(ctx context.Context, words []string) (int, error) {
	added := 0
	for _, w := range words {
		tag, err := repo.pool.Exec(ctx, `INSERT INTO words(word) VALUES($1) ON CONFLICT (word) DO NOTHING`, w)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return added, err
			}
			return added, fmt.Errorf("%w: %w", UnexpectedDatabaseError, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}
