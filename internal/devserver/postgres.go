package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"tasklist/internal/service"
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
	id SERIAL PRIMARY KEY,
	todo TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	user_id INTEGER NOT NULL
);`

// PostgresStore is a Store backed by a Postgres "todos" table.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to connString, pings it and ensures the table exists.
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		db.Close()
		return nil, fmt.Errorf("create todos table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) List(ctx context.Context) ([]service.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, todo, completed, user_id FROM todos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		var t service.Task
		if err := rows.Scan(&t.ID, &t.Todo, &t.Completed, &t.UserID); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int) (service.Task, error) {
	var t service.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, todo, completed, user_id FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Todo, &t.Completed, &t.UserID)
	return t, notFound(err)
}

func (s *PostgresStore) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	created := service.Task{Todo: task.Todo, Completed: task.Completed, UserID: task.UserID}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (todo, completed, user_id) VALUES ($1, $2, $3) RETURNING id`,
		task.Todo, task.Completed, task.UserID,
	).Scan(&created.ID)
	if err != nil {
		return service.Task{}, err
	}
	return created, nil
}

func (s *PostgresStore) Update(ctx context.Context, task service.Task) (service.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET todo = $2, completed = $3, user_id = $4 WHERE id = $1`,
		task.ID, task.Todo, task.Completed, task.UserID,
	)
	if err != nil {
		return service.Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return service.Task{}, err
	}
	if n == 0 {
		return service.Task{}, ErrNotFound
	}
	return task, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int) (service.Task, error) {
	var t service.Task
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM todos WHERE id = $1 RETURNING id, todo, completed, user_id`, id,
	).Scan(&t.ID, &t.Todo, &t.Completed, &t.UserID)
	return t, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
