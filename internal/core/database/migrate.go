package database

import (
	"gorm.io/gorm"

	"go-gin-taskhub/internal/feature/task"
	"go-gin-taskhub/internal/feature/user"
)

// Migrate creates or updates the schema. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.UserModel{}, &task.TaskModel{}); err != nil {
		return err
	}
	for _, stmt := range dialectFixups(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// dialectFixups keeps email matching byte-exact. MySQL's default collations
// fold case, Postgres text comparison already does not.
func dialectFixups(dialect string) []string {
	switch dialect {
	case "mysql":
		return []string{
			"ALTER TABLE users MODIFY email VARCHAR(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
		}
	default:
		return nil
	}
}
