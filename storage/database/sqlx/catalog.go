package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

type (
	systemRow struct {
		ID    string `db:"id"`
		Name  string `db:"name"`
		Order int    `db:"display_order"`
	}

	productRow struct {
		ID       string `db:"id"`
		SystemID string `db:"system_id"`
		Name     string `db:"name"`
		Order    int    `db:"display_order"`
	}

	lessonRow struct {
		ID        string `db:"id"`
		ProductID string `db:"product_id"`
		Title     string `db:"title"`
		Order     int    `db:"display_order"`
	}
)

func (r lessonRow) lesson() catalog.Lesson {
	return catalog.Lesson{ID: r.ID, ProductID: r.ProductID, Title: r.Title, Order: r.Order}
}

func (r productRow) product() catalog.Product {
	return catalog.Product{ID: r.ID, SystemID: r.SystemID, Name: r.Name, Order: r.Order}
}

// ListSystems assembles the full catalog tree. Products pointing at a missing
// system, and lessons pointing at a missing product, are unreachable and
// dropped here rather than surfaced as errors.
func (repo *catalogRepository) ListSystems(ctx context.Context) ([]catalog.System, error) {
	var sysRows []systemRow
	if err := repo.db.SelectContext(ctx, &sysRows,
		`SELECT id, name, display_order FROM system ORDER BY display_order, name`); err != nil {
		return nil, core.NewStorageError("querying systems", err)
	}

	var prodRows []productRow
	if err := repo.db.SelectContext(ctx, &prodRows,
		`SELECT id, system_id, name, display_order FROM product ORDER BY display_order, name`); err != nil {
		return nil, core.NewStorageError("querying products", err)
	}

	var lsnRows []lessonRow
	if err := repo.db.SelectContext(ctx, &lsnRows,
		`SELECT id, product_id, title, display_order FROM lesson ORDER BY display_order, title`); err != nil {
		return nil, core.NewStorageError("querying lessons", err)
	}

	systems := make([]catalog.System, 0, len(sysRows))
	sysIdx := make(map[string]int, len(sysRows))
	for i, row := range sysRows {
		systems = append(systems, catalog.System{ID: row.ID, Name: row.Name, Order: row.Order})
		sysIdx[row.ID] = i
	}

	type prodPos struct{ sys, prod int }
	prodIdx := make(map[string]prodPos, len(prodRows))
	for _, row := range prodRows {
		i, ok := sysIdx[row.SystemID]
		if !ok {
			continue // dangling product
		}
		systems[i].Products = append(systems[i].Products, row.product())
		prodIdx[row.ID] = prodPos{sys: i, prod: len(systems[i].Products) - 1}
	}

	for _, row := range lsnRows {
		pos, ok := prodIdx[row.ProductID]
		if !ok {
			continue // dangling lesson
		}
		prod := &systems[pos.sys].Products[pos.prod]
		prod.Lessons = append(prod.Lessons, row.lesson())
	}

	return systems, nil
}

func (repo *catalogRepository) GetSystem(ctx context.Context, id string) (catalog.System, error) {
	var row systemRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, display_order FROM system WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.System{}, catalog.ErrSystemNotFound
		}
		return catalog.System{}, core.NewStorageError("finding system", err)
	}

	var prodRows []productRow
	if err = repo.db.SelectContext(ctx, &prodRows,
		`SELECT id, system_id, name, display_order FROM product WHERE system_id = $1 ORDER BY display_order, name`, id); err != nil {
		return catalog.System{}, core.NewStorageError("querying system products", err)
	}

	sys := catalog.System{ID: row.ID, Name: row.Name, Order: row.Order}
	for _, pr := range prodRows {
		prod := pr.product()
		lessons, err := repo.ListLessons(ctx, prod.ID)
		if err != nil {
			return catalog.System{}, err
		}
		prod.Lessons = lessons
		sys.Products = append(sys.Products, prod)
	}
	return sys, nil
}

func (repo *catalogRepository) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var row productRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, system_id, name, display_order FROM product WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.Product{}, catalog.ErrProductNotFound
		}
		return catalog.Product{}, core.NewStorageError("finding product", err)
	}

	prod := row.product()
	lessons, err := repo.ListLessons(ctx, prod.ID)
	if err != nil {
		return catalog.Product{}, err
	}
	prod.Lessons = lessons
	return prod, nil
}

func (repo *catalogRepository) ListLessons(ctx context.Context, productID string) ([]catalog.Lesson, error) {
	var rows []lessonRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, product_id, title, display_order FROM lesson WHERE product_id = $1 ORDER BY display_order, title`, productID); err != nil {
		return nil, core.NewStorageError("querying product lessons", err)
	}
	lessons := make([]catalog.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.lesson())
	}
	return lessons, nil
}
