package repo

import (
	"fmt"

	"gorm.io/gorm"
)

type migration struct {
	row   any
	table Table
}

func migrations() []migration {
	return []migration{
		{&roleRow{}, RoleTable.Table},
		{&userRow{}, UserTable.Table},
		{&managerRow{}, ManagerTable.Table},
		{&clientRow{}, ClientTable.Table},
		{&authRow{}, AuthTable.Table},
	}
}

// Migrate 建表 + 只约束存活行的唯一索引（deleted_at IS NULL）
func Migrate(db *gorm.DB) error {
	for _, m := range migrations() {
		if err := db.AutoMigrate(m.row); err != nil {
			return fmt.Errorf("automigrate %s: %w", m.table.Name, err)
		}
		for _, col := range m.table.Unique {
			if err := ensureLiveUnique(db, m.row, m.table, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func liveUniqueIndexName(t Table, col string) string {
	return fmt.Sprintf("uq_%s_%s_live", t.Name, col)
}

func ensureLiveUnique(db *gorm.DB, row any, t Table, col string) error {
	name := liveUniqueIndexName(t, col)
	if db.Migrator().HasIndex(row, name) {
		return nil
	}
	var stmt string
	switch db.Dialector.Name() {
	case "mysql":
		// MySQL 无部分索引：软删行的函数列为 NULL，不参与唯一判断
		stmt = fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s, (IF(%s IS NULL, 1, NULL)))",
			name, t.Name, col, t.DeletedAt)
	default:
		stmt = fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s) WHERE %s IS NULL",
			name, t.Name, col, t.DeletedAt)
	}
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}
