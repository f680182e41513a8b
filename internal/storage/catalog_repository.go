package storage

import (
	"context"

	"slotbook/internal/model"
	"slotbook/libs/db"
)

// CatalogRepository reads and writes masters and their service catalogs.
type CatalogRepository struct {
	pool *db.Pool
}

func NewCatalogRepository(pool *db.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetMaster(ctx context.Context, masterID string) (model.Master, error) {
	var m model.Master
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, email, phone, created_at
		FROM masters
		WHERE id = $1
	`, masterID).Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.CreatedAt)
	if err != nil {
		return model.Master{}, err
	}
	return m, nil
}

func (r *CatalogRepository) ListMasters(ctx context.Context) ([]model.Master, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, email, phone, created_at
		FROM masters
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var masters []model.Master
	for rows.Next() {
		var m model.Master
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.CreatedAt); err != nil {
			return nil, err
		}
		masters = append(masters, m)
	}
	return masters, rows.Err()
}

// EnsureMaster inserts a master row for a freshly authenticated principal
// if one does not exist yet. Identity lives elsewhere; this keeps the
// local profile in step with it.
func (r *CatalogRepository) EnsureMaster(ctx context.Context, masterID, name, email string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO masters (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, masterID, name, email)
	return err
}

func (r *CatalogRepository) GetService(ctx context.Context, serviceID string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, master_id::text, name, duration_minutes, price_cents, description, created_at
		FROM services
		WHERE id = $1
	`, serviceID).Scan(&s.ID, &s.MasterID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.Description, &s.CreatedAt)
	if err != nil {
		return model.Service{}, err
	}
	return s, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context, masterID string) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, master_id::text, name, duration_minutes, price_cents, description, created_at
		FROM services
		WHERE master_id = $1
		ORDER BY name, id
	`, masterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.MasterID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.Description, &s.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *CatalogRepository) CreateService(ctx context.Context, svc *model.Service) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (master_id, name, duration_minutes, price_cents, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id::text
	`, svc.MasterID, svc.Name, svc.DurationMinutes, svc.PriceCents, svc.Description).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
