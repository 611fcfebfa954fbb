package supabase

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"frame-lab-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) CreateGeneration(gen *models.Generation) error {
	err := d.db.QueryRow(`
		INSERT INTO generations (id, user_id, status, prompt, aspect_ratio, resolution)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, gen.ID, gen.UserID, gen.Status, gen.Prompt, gen.AspectRatio, gen.Resolution).Scan(
		&gen.CreatedAt, &gen.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetGeneration(generationID, userID uuid.UUID) (*models.Generation, error) {
	var gen models.Generation
	err := d.db.QueryRow(`
		SELECT id, user_id, status, progress, prompt, aspect_ratio, resolution,
		       operation_name, storage_path, storage_url, error_message, created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`, generationID, userID).Scan(
		&gen.ID, &gen.UserID, &gen.Status, &gen.Progress, &gen.Prompt,
		&gen.AspectRatio, &gen.Resolution, &gen.OperationName,
		&gen.StoragePath, &gen.StorageURL, &gen.ErrorMessage,
		&gen.CreatedAt, &gen.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}

	return &gen, nil
}

func (d *DatabaseClient) ListGenerations(userID uuid.UUID) ([]models.Generation, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, status, progress, prompt, aspect_ratio, resolution,
		       operation_name, storage_path, storage_url, error_message, created_at, updated_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var generations []models.Generation
	for rows.Next() {
		var gen models.Generation
		err := rows.Scan(
			&gen.ID, &gen.UserID, &gen.Status, &gen.Progress, &gen.Prompt,
			&gen.AspectRatio, &gen.Resolution, &gen.OperationName,
			&gen.StoragePath, &gen.StorageURL, &gen.ErrorMessage,
			&gen.CreatedAt, &gen.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, gen)
	}

	return generations, nil
}

func (d *DatabaseClient) UpdateGenerationStatus(generationID uuid.UUID, status string, progress int) error {
	_, err := d.db.Exec(`
		UPDATE generations
		SET status = $1, progress = $2, updated_at = NOW()
		WHERE id = $3
	`, status, progress, generationID)
	return err
}

func (d *DatabaseClient) UpdateGenerationOperation(generationID uuid.UUID, operationName string) error {
	_, err := d.db.Exec(`
		UPDATE generations
		SET operation_name = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, operationName, models.GenerationStatusProcessing, generationID)
	return err
}

func (d *DatabaseClient) UpdateGenerationResult(generationID uuid.UUID, storagePath, storageURL string) error {
	_, err := d.db.Exec(`
		UPDATE generations
		SET status = $1, progress = 100, storage_path = $2, storage_url = $3, updated_at = NOW()
		WHERE id = $4
	`, models.GenerationStatusCompleted, storagePath, storageURL, generationID)
	return err
}

func (d *DatabaseClient) UpdateGenerationError(generationID uuid.UUID, errorMsg string) error {
	_, err := d.db.Exec(`
		UPDATE generations
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`, models.GenerationStatusFailed, errorMsg, generationID)
	return err
}

func (d *DatabaseClient) DeleteGeneration(generationID, userID uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM generations
		WHERE id = $1 AND user_id = $2
	`, generationID, userID)
	return err
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
