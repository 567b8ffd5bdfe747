// Package dummydb provides in-memory repositories for tests and local
// development without a running Postgres.
package dummydb

import (
	"sync"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/org"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
)

type (
	DB struct {
		catalog     *catalogTable
		org         *orgTable
		user        *userTable
		entitlement *entitlementTable
		completion  *completionTable
	}

	catalogTable struct {
		sync.RWMutex
		systems []catalog.System
	}

	orgTable struct {
		sync.RWMutex
		table map[string]*org.Organization
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	entitlementTable struct {
		sync.RWMutex
		table map[string][]entitlement.Entitlement // orgID -> rows
	}

	completionKey struct {
		userID   string
		lessonID string
	}

	completionTable struct {
		sync.RWMutex
		table map[completionKey]progress.CompletionRecord
	}
)

func Open() (*DB, error) {
	db := &DB{
		catalog:     &catalogTable{},
		org:         &orgTable{table: make(map[string]*org.Organization)},
		user:        &userTable{table: make(map[string]*user.User)},
		entitlement: &entitlementTable{table: make(map[string][]entitlement.Entitlement)},
		completion:  &completionTable{table: make(map[completionKey]progress.CompletionRecord)},
	}
	return db, nil
}

// SetCatalog replaces the whole catalog tree (the catalog is read-only for the app).
func (db *DB) SetCatalog(systems []catalog.System) {
	db.catalog.Lock()
	defer db.catalog.Unlock()
	db.catalog.systems = systems
}
