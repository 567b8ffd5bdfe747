package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/org"
)

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *sqlx.DB) *orgRepository {
	return &orgRepository{db: db}
}

type orgRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r orgRow) organization() org.Organization {
	return org.Organization{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (repo *orgRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...org.Organization) error {
	query := `SELECT EXISTS(SELECT 1 FROM organization WHERE name = $1)`
	args := []interface{}{name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, o := range excluded {
			ids = append(ids, o.ID)
		}
		var err error
		query, args, err = sqlx.In(`SELECT EXISTS(SELECT 1 FROM organization WHERE name = ? AND id NOT IN (?))`, name, ids)
		if err != nil {
			return core.NewStorageError("checking organization uniqueness", err)
		}
		query = repo.db.Rebind(query)
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return core.NewStorageError("checking organization uniqueness", err)
	}
	if exists {
		return org.ErrNameExists
	}
	return nil
}

func (repo *orgRepository) CreateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	o.ID = uuid.New().String()
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO organization (id, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.Name, o.IsActive, o.CreatedAt.UTC(), o.UpdatedAt.UTC()); err != nil {
		return org.Organization{}, core.NewStorageError("inserting organization", err)
	}
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(ctx context.Context) ([]org.Organization, error) {
	var rows []orgRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, is_active, created_at, updated_at FROM organization ORDER BY name`); err != nil {
		return nil, core.NewStorageError("querying organizations", err)
	}

	orgs := make([]org.Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, row.organization())
	}
	return orgs, nil
}

func (repo *orgRepository) GetOrganizationByID(ctx context.Context, id string) (org.Organization, error) {
	if _, err := uuid.Parse(id); err != nil {
		return org.Organization{}, org.ErrNotFound
	}

	var row orgRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, is_active, created_at, updated_at FROM organization WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, core.NewStorageError("finding organization", err)
	}
	return row.organization(), nil
}

func (repo *orgRepository) UpdateOrganization(ctx context.Context, o org.Organization, isActive *bool) (org.Organization, error) {
	orig, err := repo.GetOrganizationByID(ctx, o.ID)
	if err != nil {
		return org.Organization{}, err
	}

	if o.Name == "" {
		o.Name = orig.Name
	}
	o.IsActive = orig.IsActive
	if isActive != nil {
		o.IsActive = *isActive
	}
	o.CreatedAt = orig.CreatedAt

	if _, err = repo.db.ExecContext(ctx,
		`UPDATE organization SET name = $2, is_active = $3, updated_at = $4 WHERE id = $1`,
		o.ID, o.Name, o.IsActive, o.UpdatedAt.UTC()); err != nil {
		return org.Organization{}, core.NewStorageError("updating organization", err)
	}
	return o, nil
}

func (repo *orgRepository) DeleteOrganizationsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM organization WHERE id IN (?)`, ids)
	if err != nil {
		return core.NewStorageError("deleting organizations", err)
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return core.NewStorageError("deleting organizations", err)
	}
	return nil
}
