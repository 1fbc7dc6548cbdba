package shared

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return count > 0
}

func TestMigrations(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one embedded migration")
		}

		for _, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d is incomplete", m.Version)
			}
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i-1].Version >= migrations[i].Version {
				t.Error("expected migrations sorted by version")
			}
		}
	})

	t.Run("RunMigrations", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !tableExists(t, db, "schema_migrations") {
			t.Error("expected schema_migrations table")
		}
		if !tableExists(t, db, "queue_log") {
			t.Error("expected queue_log table")
		}

		t.Run("Is Idempotent", func(t *testing.T) {
			if err := RunMigrations(db); err != nil {
				t.Fatalf("expected re-run to succeed, got %v", err)
			}

			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
				t.Fatal(err)
			}
			if count != 1 {
				t.Errorf("expected one recorded migration, got %d", count)
			}
		})
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if tableExists(t, db, "queue_log") {
			t.Error("expected queue_log table to be dropped")
		}

		t.Run("Nothing To Rollback", func(t *testing.T) {
			if err := RollbackMigration(db); err == nil {
				t.Error("expected error when no migrations are applied")
			}
		})
	})
}
