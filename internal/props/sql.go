package props

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Property is one row of the SQL-backed property table.
type Property struct {
	Key       string `gorm:"column:prop_key;primaryKey;size:191"`
	Value     string `gorm:"column:prop_value;type:text"`
	UpdatedAt time.Time
}

func (Property) TableName() string { return "clb_properties" }

type SQLStore struct {
	db *gorm.DB
}

// OpenSQL opens the database and migrates the property table. When driver is
// empty it is inferred from the DSN.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("props: sql backend requires a dsn")
	}
	driver = strings.TrimSpace(driver)
	if driver == "" {
		driver = inferDriverFromDSN(dsn)
		if driver == "" {
			return nil, errors.New("props: cannot infer database driver from dsn; set properties.driver")
		}
	}

	db, err := openDatabase(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Property{}); err != nil {
		return nil, fmt.Errorf("props: migrate property table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{NowFunc: func() time.Time { return time.Now().UTC() }}
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pg":
		return gorm.Open(postgres.Open(dsn), cfg)
	case "mysql":
		return gorm.Open(mysql.Open(dsn), cfg)
	case "sqlite", "sqlite3":
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), cfg)
	default:
		return nil, fmt.Errorf("props: unsupported database driver %q", driver)
	}
}

func inferDriverFromDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"), strings.Contains(lower, "@tcp("):
		return "mysql"
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"),
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return "sqlite"
	default:
		return ""
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var p Property
	err := s.db.WithContext(ctx).Where("prop_key = ?", key).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("props: sql get %s: %w", key, err)
	}
	return p.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	p := Property{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prop_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"prop_value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("props: sql set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("prop_key = ?", key).Delete(&Property{}).Error; err != nil {
		return fmt.Errorf("props: sql delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
