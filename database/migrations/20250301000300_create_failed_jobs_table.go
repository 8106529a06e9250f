package migrations

import (
	"gorm.io/gorm"

	"github.com/zaikahq/zaika/pkg/migration"
	"github.com/zaikahq/zaika/pkg/queue"
)

func init() {
	migration.Register("20250301000300_create_failed_jobs_table", &CreateFailedJobsTable{})
}

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
