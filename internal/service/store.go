package service

import (
	"harjoitus/internal/database"
	"harjoitus/internal/progress"
	"harjoitus/internal/repository"
)

// NewProgressStore returns the local progress store: kv_store rows for "sql", JSON files in dir otherwise
func NewProgressStore(kind, dir string, db *database.DB) progress.Store {
	if kind == "sql" && db != nil {
		return repository.NewKVRepository(db)
	}
	return progress.NewFileStore(dir)
}

// NewDataBackend returns where /api/data keeps its snapshot
func NewDataBackend(kind, filePath string, db *database.DB) DataBackend {
	if kind == "sql" && db != nil {
		return NewKVBackend(repository.NewKVRepository(db))
	}
	return NewFileBackend(filePath)
}
