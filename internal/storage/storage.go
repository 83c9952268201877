package storage

import (
	"fmt"
)

// Источники справочных таблиц
const (
	TableSourceFile     = "file"
	TableSourceDatabase = "database"
)

// NewTableSource создает источник таблиц по имени из конфигурации
func NewTableSource(kind, path string, deps *RepositoryDependencies) (TableSource, error) {
	switch kind {
	case "", TableSourceFile:
		return NewFileTableSource(path), nil
	case TableSourceDatabase:
		if deps == nil || deps.DB == nil {
			return nil, fmt.Errorf("table source %q requires a database connection", kind)
		}
		return NewPostgresTableSource(deps), nil
	default:
		return nil, fmt.Errorf("unknown table source %q", kind)
	}
}
