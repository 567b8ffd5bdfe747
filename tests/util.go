package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
	"github.com/cartolearn/backend/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd, orgID string,
	isAdmin, isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		OrgID:     orgID,
		Name:      name,
		Username:  uname,
		Email:     email,
		IsAdmin:   isAdmin,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateOrg(t *testing.T, repo org.Repository, name string) org.Organization {
	t.Helper()

	now := time.Now().UTC()
	o, err := repo.CreateOrganization(context.Background(), org.Organization{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateOrg() failed: %v", err)
	}
	return o
}

// SampleCatalog builds a small two-system catalog:
//
//	Registro Civil (sys-civil)
//	  Nascimento  (prod-nasc)  lessons: nasc-1, nasc-2
//	  Casamento   (prod-casa)  lessons: casa-1
//	Notas (sys-notas)
//	  Escrituras  (prod-escr)  lessons: escr-1 .. escr-9
func SampleCatalog() []catalog.System {
	escrituras := catalog.Product{ID: "prod-escr", SystemID: "sys-notas", Name: "Escrituras", Order: 1}
	for i := 1; i <= 9; i++ {
		escrituras.Lessons = append(escrituras.Lessons, catalog.Lesson{
			ID:        "escr-" + string(rune('0'+i)),
			ProductID: "prod-escr",
			Title:     "Escrituras " + string(rune('0'+i)),
			Order:     i,
		})
	}
	return []catalog.System{
		{
			ID: "sys-civil", Name: "Registro Civil", Order: 1,
			Products: []catalog.Product{
				{
					ID: "prod-nasc", SystemID: "sys-civil", Name: "Nascimento", Order: 1,
					Lessons: []catalog.Lesson{
						{ID: "nasc-1", ProductID: "prod-nasc", Title: "Nascimento 1", Order: 1},
						{ID: "nasc-2", ProductID: "prod-nasc", Title: "Nascimento 2", Order: 2},
					},
				},
				{
					ID: "prod-casa", SystemID: "sys-civil", Name: "Casamento", Order: 2,
					Lessons: []catalog.Lesson{
						{ID: "casa-1", ProductID: "prod-casa", Title: "Casamento 1", Order: 1},
					},
				},
			},
		},
		{
			ID: "sys-notas", Name: "Notas", Order: 2,
			Products: []catalog.Product{escrituras},
		},
	}
}
