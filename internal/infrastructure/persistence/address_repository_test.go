package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/addrsync/backend/internal/domain/address"
	"github.com/addrsync/backend/internal/domain/identity"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestUserMetaAddressRepository_ReadAddresses(t *testing.T) {
	t.Run("decodes stored collection", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		userID := uuid.New()
		doc := `[{"address_id":1,"type":"shipping","address_internal_name":"Acme Corp","fields":{"shipping_company":"Acme Corp"}}]`

		rows := sqlmock.NewRows([]string{"id", "user_id", "meta_key", "meta_value"}).
			AddRow(1, userID, "_additional_addresses", doc)

		mock.ExpectQuery(`SELECT \* FROM "user_meta" WHERE user_id = \$1 AND meta_key = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, "_additional_addresses", 1).
			WillReturnRows(rows)

		entries, err := repo.ReadAddresses(context.Background(), userID.String())

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 1, entries[0].ID)
		assert.Equal(t, address.TypeShipping, entries[0].Type)
		assert.Equal(t, "Acme Corp", entries[0].InternalName)
		assert.Equal(t, "Acme Corp", entries[0].Get("shipping_company"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing meta row means empty collection", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "user_meta" WHERE user_id = \$1 AND meta_key = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, "_additional_addresses", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entries, err := repo.ReadAddresses(context.Background(), userID.String())

		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid user id", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		_, err := repo.ReadAddresses(context.Background(), "not-a-uuid")
		assert.Error(t, err)
	})

	t.Run("corrupt document is an error", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "user_id", "meta_key", "meta_value"}).
			AddRow(1, userID, "_additional_addresses", "{not json")

		mock.ExpectQuery(`SELECT \* FROM "user_meta" WHERE user_id = \$1 AND meta_key = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, "_additional_addresses", 1).
			WillReturnRows(rows)

		_, err := repo.ReadAddresses(context.Background(), userID.String())
		assert.Error(t, err)
	})
}

func TestUserMetaAddressRepository_WriteAddresses(t *testing.T) {
	t.Run("upserts the collection document", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		userID := uuid.New()
		entries := []address.Entry{
			{ID: 1, Type: address.TypeShipping, InternalName: "Acme Corp"},
		}

		mock.ExpectQuery(`INSERT INTO "user_meta" .*ON CONFLICT \("user_id","meta_key"\) DO UPDATE SET.*`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.WriteAddresses(context.Background(), userID.String(), entries)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid user id", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewUserMetaAddressRepository(gormDB)

		err := repo.WriteAddresses(context.Background(), "not-a-uuid", nil)
		assert.Error(t, err)
	})
}

func TestGormUserDirectory_FindUser(t *testing.T) {
	t.Run("finds user by id", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		dir := NewGormUserDirectory(gormDB)

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "email", "login"}).
			AddRow(userID, "alice@example.com", "alice")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		user, err := dir.FindUser(context.Background(), identity.LookupCriteria{ID: userID.String()})

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("finds user by email lowercased", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		dir := NewGormUserDirectory(gormDB)

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "email", "login"}).
			AddRow(userID, "alice@example.com", "alice")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("alice@example.com", 1).
			WillReturnRows(rows)

		user, err := dir.FindUser(context.Background(), identity.LookupCriteria{Email: "Alice@Example.com"})

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Login)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		dir := NewGormUserDirectory(gormDB)

		user, err := dir.FindUser(context.Background(), identity.LookupCriteria{ID: "12345"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("missing user maps to domain error", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		dir := NewGormUserDirectory(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE login = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := dir.FindUser(context.Background(), identity.LookupCriteria{Login: "ghost"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("empty criteria is not found", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		dir := NewGormUserDirectory(gormDB)

		user, err := dir.FindUser(context.Background(), identity.LookupCriteria{})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})
}
