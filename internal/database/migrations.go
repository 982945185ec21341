package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes that gorm tags cannot express on join tables
// and on the list-filter paths.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns []string
	}{
		// Reverse lookups: "teams/projects this user belongs to"
		{"team_members", "idx_team_members_user_id", []string{"user_id"}},
		{"project_members", "idx_project_members_user_id", []string{"user_id"}},

		// Task list filtering and default ordering
		{"tasks", "idx_tasks_project_due_date", []string{"project_id", "due_date"}},
		{"tasks", "idx_tasks_status_priority", []string{"status", "priority"}},

		// Project list filtering
		{"projects", "idx_projects_team_start_date", []string{"team_id", "start_date"}},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{
			"index": idx.name,
			"table": idx.table,
		}).Debug("Created index")
	}

	return nil
}
