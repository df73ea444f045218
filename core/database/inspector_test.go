package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE asset_paths (id INTEGER PRIMARY KEY, path TEXT NOT NULL, guid TEXT DEFAULT '')").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "asset_paths")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "integer", colMap["id"].Type)
	assert.True(t, colMap["id"].PrimaryKey)
	assert.Equal(t, "text", colMap["path"].Type)
	assert.False(t, colMap["path"].Nullable)
	assert.False(t, colMap["path"].PrimaryKey)
	assert.True(t, colMap["guid"].Nullable)
	require.NotNil(t, colMap["guid"].Default)
	assert.Equal(t, "''", *colMap["guid"].Default)
	assert.Nil(t, colMap["path"].Default)
}

func TestGetTableColumns_MissingTable(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	cols, err := GetTableColumns(db, "non_existent")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Nil(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("path", "varchar(512)", "YES", "UNI", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `asset_paths`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "asset_paths")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, ColumnInfo{Field: "id", Type: "bigint unsigned", PrimaryKey: true}, columns[0])
	assert.Equal(t, ColumnInfo{Field: "path", Type: "varchar(512)", Nullable: true}, columns[1])

	mock.ExpectQuery("SHOW COLUMNS FROM `asset_paths`").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}))
	_, err = GetTableColumns(db, "asset_paths")
	assert.ErrorIs(t, err, ErrTableNotFound)
}
