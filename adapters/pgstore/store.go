package pgstore

import (
	"context"
	"fmt"
	"time"

	"webservers/domain"
	"webservers/helpers"
	"webservers/service"
	"webservers/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSchema is the schema holding the server tables of the game database.
const DefaultSchema = "fish_mmo_postgresql"

// tables maps each kind to its server table.
var tables = map[domain.Kind]string{
	domain.KindLoginServer: "login_servers",
	domain.KindPatchServer: "patch_servers",
}

// serverRow is one row of a server table. Rows are unique by (address, port).
type serverRow struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Address   string     `gorm:"column:address;size:255;not null"`
	Port      int        `gorm:"column:port;not null"`
	LastPulse *time.Time `gorm:"column:last_pulse"`
}

func (r serverRow) toEndpoint() domain.Endpoint {
	e := domain.Endpoint{Address: r.Address, Port: r.Port}
	if r.LastPulse != nil {
		e.LastPulse = helpers.Ptr(r.LastPulse.UTC())
	}
	return e
}

// Store implements interfaces.EndpointStore over the per-kind server tables with gorm.
type Store struct {
	db     *gorm.DB
	schema string
	logger log.Logger
}

// NewStore creates a Store. An empty schema addresses unqualified table names.
// Panics on nil db or logger.
func NewStore(db *gorm.DB, schema string, logger log.Logger) *Store {
	return &Store{
		db:     helpers.NilPanic(db, "pgstore.store.go: db is required"),
		schema: schema,
		logger: log.With(helpers.NilPanic(logger, "pgstore.store.go: logger is required"), "component", "EndpointStore"),
	}
}

// Upsert inserts (address, port) into the table of kind, or sets last_pulse of the existing row.
func (s *Store) Upsert(ctx context.Context, kind domain.Kind, address string, port int, pulse time.Time) error {
	table, err := s.table(kind)
	if err != nil {
		return err
	}

	row := serverRow{Address: address, Port: port, LastPulse: helpers.Ptr(pulse.UTC())}
	err = s.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}, {Name: "port"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_pulse"}),
		}).
		Create(&row).Error
	if err != nil {
		return s.fail("upsert", kind, err)
	}
	return nil
}

// Delete removes (address, port) from the table of kind. Deleting an absent row succeeds.
func (s *Store) Delete(ctx context.Context, kind domain.Kind, address string, port int) error {
	table, err := s.table(kind)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Table(table).
		Where("address = ? AND port = ?", address, port).
		Delete(&serverRow{}).Error
	if err != nil {
		return s.fail("delete", kind, err)
	}
	return nil
}

// ListAlive returns the rows of kind with last_pulse >= cutoff.
func (s *Store) ListAlive(ctx context.Context, kind domain.Kind, cutoff time.Time) ([]domain.Endpoint, error) {
	table, err := s.table(kind)
	if err != nil {
		return nil, err
	}

	var rows []serverRow
	err = s.db.WithContext(ctx).Table(table).
		Select("address", "port", "last_pulse").
		Where("last_pulse >= ?", cutoff.UTC()).
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list_alive", kind, err)
	}
	return toEndpoints(rows), nil
}

// ListAll returns address and port of every row of kind.
func (s *Store) ListAll(ctx context.Context, kind domain.Kind) ([]domain.Endpoint, error) {
	table, err := s.table(kind)
	if err != nil {
		return nil, err
	}

	var rows []serverRow
	err = s.db.WithContext(ctx).Table(table).
		Select("address", "port").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list_all", kind, err)
	}
	return toEndpoints(rows), nil
}

func (s *Store) table(kind domain.Kind) (string, error) {
	name, ok := tables[kind]
	if !ok {
		return "", service.NewBadParameterError(fmt.Sprintf("no table for kind %q", kind), nil)
	}
	if s.schema == "" {
		return name, nil
	}
	return s.schema + "." + name, nil
}

func (s *Store) fail(op string, kind domain.Kind, err error) error {
	telemetry.StoreErrorsTotal.WithLabelValues(op, string(kind)).Inc()
	level.Error(s.logger).Log("msg", "endpoint store operation failed", "op", op, "kind", kind, "err", err)
	return service.NewStoreUnavailableError(fmt.Sprintf("endpoint store %s failed", op), err)
}

func toEndpoints(rows []serverRow) []domain.Endpoint {
	endpoints := make([]domain.Endpoint, 0, len(rows))
	for _, r := range rows {
		endpoints = append(endpoints, r.toEndpoint())
	}
	return endpoints
}
