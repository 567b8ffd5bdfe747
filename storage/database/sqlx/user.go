package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           string      `db:"id"`
	OrgID        null.String `db:"org_id"`
	Name         string      `db:"name"`
	Username     string      `db:"username"`
	Email        string      `db:"email"`
	IsAdmin      bool        `db:"is_admin"`
	IsActive     bool        `db:"is_active"`
	PasswordHash []byte      `db:"password_hash"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	LastLogin    null.Time   `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		OrgID:        r.OrgID.String,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		IsAdmin:      r.IsAdmin,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

const userColumns = `id, org_id, name, username, email, is_admin, is_active, password_hash, created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	query := `SELECT EXISTS(SELECT 1 FROM app_user WHERE username = ? OR email = ?)`
	args := []interface{}{username, email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		var err error
		query, args, err = sqlx.In(
			`SELECT EXISTS(SELECT 1 FROM app_user WHERE (username = ? OR email = ?) AND id NOT IN (?))`,
			username, email, ids)
		if err != nil {
			return core.NewStorageError("checking user uniqueness", err)
		}
	}

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...); err != nil {
		return core.NewStorageError("checking user uniqueness", err)
	}
	if !exists {
		return nil
	}

	// figure out which field clashed
	var usernameTaken bool
	if err := repo.db.GetContext(ctx, &usernameTaken,
		repo.db.Rebind(`SELECT EXISTS(SELECT 1 FROM app_user WHERE username = ?)`), username); err != nil {
		return core.NewStorageError("checking user uniqueness", err)
	}
	if usernameTaken && username != "" {
		return user.ErrUsernameExists
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO app_user (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		usr.ID, null.NewString(usr.OrgID, usr.OrgID != ""), usr.Name, usr.Username, usr.Email,
		usr.IsAdmin, usr.IsActive, usr.PasswordHash, usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
		null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero())); err != nil {
		return user.User{}, core.NewStorageError("inserting user", err)
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+userColumns+` FROM app_user ORDER BY username`); err != nil {
		return nil, core.NewStorageError("querying users", err)
	}
	return repo.users(rows), nil
}

func (repo *userRepository) QueryUsersByOrg(ctx context.Context, orgID string) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+userColumns+` FROM app_user WHERE org_id = $1 ORDER BY username`, orgID); err != nil {
		return nil, core.NewStorageError("querying organization users", err)
	}
	return repo.users(rows), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, core.NewStorageError("finding user by ID", err)
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+userColumns+` FROM app_user WHERE username = $1 OR email = $1`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, core.NewStorageError("finding user", err)
	}
	return row.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive, isAdmin *bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Name == "" {
		usr.Name = orig.Name
	}
	if usr.Username == "" {
		usr.Username = orig.Username
	}
	if usr.Email == "" {
		usr.Email = orig.Email
	}
	if usr.PasswordHash == nil {
		usr.PasswordHash = orig.PasswordHash
	}
	if usr.LastLogin.IsZero() {
		usr.LastLogin = orig.LastLogin
	}
	if usr.UpdatedAt.IsZero() {
		usr.UpdatedAt = orig.UpdatedAt
	}
	usr.OrgID = orig.OrgID
	usr.CreatedAt = orig.CreatedAt
	usr.IsActive = orig.IsActive
	if isActive != nil {
		usr.IsActive = *isActive
	}
	usr.IsAdmin = orig.IsAdmin
	if isAdmin != nil {
		usr.IsAdmin = *isAdmin
	}

	if _, err = repo.db.ExecContext(ctx,
		`UPDATE app_user
		    SET name = $2, username = $3, email = $4, is_admin = $5, is_active = $6,
		        password_hash = $7, updated_at = $8, last_login = $9
		  WHERE id = $1`,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.IsAdmin, usr.IsActive,
		usr.PasswordHash, usr.UpdatedAt.UTC(),
		null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero())); err != nil {
		return user.User{}, core.NewStorageError("updating user", err)
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM app_user WHERE id IN (?)`, ids)
	if err != nil {
		return core.NewStorageError("deleting users", err)
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return core.NewStorageError("deleting users", err)
	}
	return nil
}

func (repo *userRepository) users(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users
}
