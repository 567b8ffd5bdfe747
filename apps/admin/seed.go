package main

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type (
	seedProduct struct {
		name    string
		lessons []string
	}

	seedSystem struct {
		name     string
		products []seedProduct
	}
)

// demoCatalog is the starter catalog for fresh installs. Seeding is keyed on
// names, so re-running the command only fills in what is missing.
var demoCatalog = []seedSystem{
	{
		name: "Registro Civil",
		products: []seedProduct{
			{
				name: "Nascimento",
				lessons: []string{
					"Registro de nascimento",
					"Averbações e retificações",
				},
			},
			{
				name:    "Casamento",
				lessons: []string{"Habilitação e celebração"},
			},
		},
	},
	{
		name: "Notas",
		products: []seedProduct{
			{
				name: "Escrituras",
				lessons: []string{
					"Escritura de compra e venda",
					"Escritura de doação",
					"Procurações",
				},
			},
		},
	},
}

func (cli *commandLine) seedCatalog() error {
	for sysOrder, sys := range demoCatalog {
		sysID, err := cli.ensureRow(
			`SELECT id FROM system WHERE name = $1`,
			`INSERT INTO system (id, name, display_order) VALUES ($1, $2, $3)`,
			sys.name, sysOrder,
		)
		if err != nil {
			return errors.Wrapf(err, "seeding system %q", sys.name)
		}

		for prodOrder, prod := range sys.products {
			prodID, err := cli.ensureChildRow(
				`SELECT id FROM product WHERE system_id = $1 AND name = $2`,
				`INSERT INTO product (id, system_id, name, display_order) VALUES ($1, $2, $3, $4)`,
				sysID, prod.name, prodOrder,
			)
			if err != nil {
				return errors.Wrapf(err, "seeding product %q", prod.name)
			}

			for lsnOrder, title := range prod.lessons {
				_, err = cli.ensureChildRow(
					`SELECT id FROM lesson WHERE product_id = $1 AND title = $2`,
					`INSERT INTO lesson (id, product_id, title, display_order) VALUES ($1, $2, $3, $4)`,
					prodID, title, lsnOrder,
				)
				if err != nil {
					return errors.Wrapf(err, "seeding lesson %q", title)
				}
			}
		}
	}
	return nil
}

// ensureRow looks a row up by name, inserting it with a fresh uuid when
// missing, and returns the row's id either way.
func (cli *commandLine) ensureRow(selectQ, insertQ, name string, order int) (string, error) {
	var id string
	err := cli.db.Get(&id, selectQ, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.NewString()
	if _, err = cli.db.Exec(insertQ, id, name, order); err != nil {
		return "", err
	}
	return id, nil
}

func (cli *commandLine) ensureChildRow(selectQ, insertQ, parentID, name string, order int) (string, error) {
	var id string
	err := cli.db.Get(&id, selectQ, parentID, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.NewString()
	if _, err = cli.db.Exec(insertQ, id, parentID, name, order); err != nil {
		return "", err
	}
	return id, nil
}
