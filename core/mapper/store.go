package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"asset-core/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
	"gorm.io/gorm"
)

// Store persists an ordered list of entries.
type Store interface {
	// Save replaces the persisted manifest with entries.
	Save(ctx context.Context, entries []Entry) error
	// Load returns the persisted manifest, or ErrManifestNotFound.
	Load(ctx context.Context) ([]Entry, error)
}

// NewStore builds the store selected by cfg. db and client may be nil when the
// corresponding backend is not selected.
func NewStore(cfg Config, db *gorm.DB, client storage.Client, bucket string) (Store, error) {
	switch cfg.Backend {
	case BackendFile:
		return &FileStore{Path: cfg.ManifestPath}, nil
	case BackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("database backend requires a database connection")
		}
		return NewDBStore(db), nil
	case BackendStorage:
		if client == nil {
			return nil, fmt.Errorf("storage backend requires a storage client")
		}
		return &ObjectStore{Client: client, Bucket: bucket, Object: cfg.ObjectName}, nil
	default:
		return nil, fmt.Errorf("unknown mapper backend: %s", cfg.Backend)
	}
}

// EncodeManifest renders entries in the persisted layout.
func EncodeManifest(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeManifest parses a manifest. Comments and trailing commas are accepted.
func DecodeManifest(data []byte) ([]Entry, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(std, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return entries, nil
}

// FileStore keeps the manifest in a file on disk.
type FileStore struct {
	Path string
}

// Save atomically replaces the manifest file.
func (s *FileStore) Save(_ context.Context, entries []Entry) error {
	data, err := EncodeManifest(entries)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", s.Path, err)
	}
	return nil
}

// Load reads the manifest file.
func (s *FileStore) Load(_ context.Context) ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrManifestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", s.Path, err)
	}
	return DecodeManifest(data)
}

// ObjectStore keeps the manifest as an object in a bucket.
type ObjectStore struct {
	Client storage.Client
	Bucket string
	Object string
}

// Save uploads the manifest object.
func (s *ObjectStore) Save(ctx context.Context, entries []Entry) error {
	data, err := EncodeManifest(entries)
	if err != nil {
		return err
	}
	_, err = s.Client.PutObject(ctx, s.Bucket, s.Object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload manifest %s: %w", s.Object, err)
	}
	return nil
}

// Load downloads the manifest object.
func (s *ObjectStore) Load(ctx context.Context) ([]Entry, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Object, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapGetError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrapGetError(err)
	}
	return DecodeManifest(data)
}

func (s *ObjectStore) wrapGetError(err error) error {
	if storage.IsNotFound(err) {
		return fmt.Errorf("%s: %w", s.Object, ErrManifestNotFound)
	}
	return fmt.Errorf("failed to download manifest %s: %w", s.Object, err)
}

// AssetPath is the database row of one mapping.
type AssetPath struct {
	ID       uint   `gorm:"column:id;primaryKey"`
	Position int    `gorm:"column:position;index"`
	Path     string `gorm:"column:path;size:512;uniqueIndex"`
	GUID     string `gorm:"column:guid;size:36;index"`
}

// TableName overrides the table name used by AssetPath.
func (AssetPath) TableName() string {
	return "asset_paths"
}

// DBStore keeps the manifest in the asset_paths table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a database-backed store.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates or updates the asset_paths table.
func (s *DBStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&AssetPath{}); err != nil {
		return fmt.Errorf("failed to migrate asset_paths: %w", err)
	}
	return nil
}

// Save replaces every row in a single transaction.
func (s *DBStore) Save(ctx context.Context, entries []Entry) error {
	rows := make([]AssetPath, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, AssetPath{Position: i, Path: e.Path, GUID: e.GUID.String()})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&AssetPath{}).Error; err != nil {
			return fmt.Errorf("failed to clear asset_paths: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert asset_paths: %w", err)
		}
		return nil
	})
}

// Load reads every row in position order.
func (s *DBStore) Load(ctx context.Context) ([]Entry, error) {
	var rows []AssetPath
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query asset_paths: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		var e Entry
		e.Path = row.Path
		if err := e.GUID.UnmarshalText([]byte(row.GUID)); err != nil {
			return nil, fmt.Errorf("asset_paths row %d: %w", row.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
