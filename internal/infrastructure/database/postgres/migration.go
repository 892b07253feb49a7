// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodie-backend/internal/domain/feedback"
	"github.com/your-org/foodie-backend/internal/domain/order"
	"github.com/your-org/foodie-backend/internal/infrastructure/storage"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every table the service owns
func Models() []interface{} {
	return []interface{}{
		// Durable client-scoped storage (cart mirror, theme, language)
		&storage.Entry{},

		// Order history
		&order.Order{},

		// Forms
		&feedback.Feedback{},
		&feedback.PartnerApplication{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the composite indexes the struct tags cannot express
func (m *Migration) CreateIndexes() error {
	m.logger.Info("Creating additional database indexes")

	indexes := []string{
		// Order history is always read newest first for one client
		"CREATE INDEX IF NOT EXISTS idx_orders_client_placed ON orders(client_id, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_placed ON orders(status, placed_at DESC)",

		// Durable storage cleanup by age
		"CREATE INDEX IF NOT EXISTS idx_storage_entries_updated ON storage_entries(updated_at)",

		// Form review queues
		"CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_partner_applications_city ON partner_applications(city, created_at DESC)",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	m.logger.WithField("count", len(indexes)).Info("Database indexes created")
	return nil
}

// TableInfo is the row count of one table
type TableInfo struct {
	Name    string
	Records int64
}

// GetTableInfo reports the row count of every table the service owns
func (m *Migration) GetTableInfo() ([]TableInfo, error) {
	var infos []TableInfo
	var total int64

	for _, model := range Models() {
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		var count int64
		if err := m.db.Model(model).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", stmt.Schema.Table, err)
		}
		total += count
		infos = append(infos, TableInfo{Name: stmt.Schema.Table, Records: count})

		m.logger.WithFields(logrus.Fields{
			"table":   stmt.Schema.Table,
			"records": count,
		}).Debug("Table info")
	}

	m.logger.WithFields(logrus.Fields{
		"tables":  len(infos),
		"records": total,
	}).Info("Database tables information")

	return infos, nil
}
