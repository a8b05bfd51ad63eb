package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type Project struct {
	ProjectID        string    `json:"project_id"`
	Name             string    `json:"name"`
	PlantType        string    `json:"plant_type"`
	Standard         string    `json:"standard"`
	VoltageLevels    []float64 `json:"voltage_levels"`
	ServiceCondition string    `json:"service_condition"`
	CreatedAt        time.Time `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	CreateProject(ctx context.Context, p Project) error
	ListProjects(ctx context.Context) ([]Project, error)

	SaveResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) error
	UpsertResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) (created bool, err error)
	ListResults(ctx context.Context, projectID string) ([]json.RawMessage, error)
	SetResultStatus(ctx context.Context, projectID, resultID, status string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables this repository needs.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			login TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			project_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			plant_type TEXT,
			standard TEXT,
			voltage_levels JSONB,
			service_condition TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cable_results (
			id SERIAL PRIMARY KEY,
			result_id TEXT NOT NULL,
			project_id TEXT NOT NULL,
			cable_number TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (project_id, result_id)
		)`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string
	err := r.db.QueryRowContext(ctx, "SELECT id, password FROM users WHERE login=$1", login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) CreateProject(ctx context.Context, p Project) error {
	levels, err := json.Marshal(p.VoltageLevels)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (project_id, name, plant_type, standard, voltage_levels, service_condition, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ProjectID, p.Name, p.PlantType, p.Standard, levels, p.ServiceCondition, p.CreatedAt)
	return err
}

func (r *PostgresRepository) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT project_id, name, plant_type, standard, voltage_levels, service_condition, created_at
		FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		var levels []byte
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.PlantType, &p.Standard, &levels, &p.ServiceCondition, &p.CreatedAt); err != nil {
			return nil, err
		}
		if len(levels) > 0 {
			if err := json.Unmarshal(levels, &p.VoltageLevels); err != nil {
				return nil, err
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cable_results (result_id, project_id, cable_number, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, result_id) DO UPDATE SET payload = EXCLUDED.payload, created_at = now()`,
		resultID, projectID, cableNumber, payload)
	return err
}

func (r *PostgresRepository) UpsertResult(ctx context.Context, projectID, resultID, cableNumber string, payload []byte) (bool, error) {
	var existed bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM cable_results WHERE project_id=$1 AND result_id=$2)",
		projectID, resultID).Scan(&existed)
	if err != nil {
		return false, err
	}
	if err := r.SaveResult(ctx, projectID, resultID, cableNumber, payload); err != nil {
		return false, err
	}
	return !existed, nil
}

func (r *PostgresRepository) ListResults(ctx context.Context, projectID string) ([]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT payload FROM cable_results WHERE project_id=$1 ORDER BY id", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		out = append(out, json.RawMessage(payload))
	}
	return out, rows.Err()
}

// SetResultStatus overwrites the approval status inside the stored payload.
// This is the only mutation ever applied to a stored result.
func (r *PostgresRepository) SetResultStatus(ctx context.Context, projectID, resultID, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE cable_results
		SET payload = jsonb_set(payload, '{status}', to_jsonb($3::text))
		WHERE project_id=$1 AND result_id=$2`,
		projectID, resultID, status)
	return err
}
