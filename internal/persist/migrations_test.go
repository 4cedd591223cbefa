package persist

import (
	"io/fs"
	"testing"
)

func TestSchemaVersion(t *testing.T) {
	v, err := SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 {
		t.Fatalf("schema version = %d, want 1", v)
	}

	files, err := fs.Glob(migrationFS, migrationsDir+"/*.sql")
	if err != nil || len(files) != 1 || files[0] != migrationsDir+"/00001_scene_snapshots.sql" {
		t.Fatalf("embedded migrations = %v, %v", files, err)
	}
}
