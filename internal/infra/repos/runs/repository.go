package runs

import (
	"strings"

	"github.com/mmrzaf/tabgen/internal/domain"
)

// Repository stores run history and target check results.
type Repository interface {
	Init() error
	Create(run *domain.Run) error
	Update(run *domain.Run) error
	Get(id string) (*domain.Run, error)
	List(limit int, status string) ([]*domain.Run, error)
	RecordCheck(c *domain.TargetCheck) error
	ListChecks(targetID string, limit int) ([]*domain.TargetCheck, error)
	Close() error
}

// Open picks the backend from the DSN: postgres:// URLs and key=value
// connection strings go to PostgreSQL, anything else is a SQLite file path.
// The returned repository is initialised.
func Open(dsn string) (Repository, error) {
	var repo Repository
	if IsPostgresDSN(dsn) {
		repo = NewPostgresRepository(dsn)
	} else {
		repo = NewSQLiteRepository(dsn)
	}
	if err := repo.Init(); err != nil {
		return nil, err
	}
	return repo, nil
}

func IsPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(strings.ToLower(dsn))
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.HasPrefix(d, "host=")
}
