// Package blobstore almacena los artefactos de factura (PDF/XLSX) en BadgerDB.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/pkg/logger"
)

const artifactKeyPrefix = "artifact:"

// record envoltorio persistido por clave.
type record struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// BadgerStore implementa billing.ArtifactStore.
type BadgerStore struct {
	db *badger.DB
}

var _ billing.ArtifactStore = (*BadgerStore)(nil)

// Open abre la base en path. Con path vacío la base vive en memoria (desarrollo y tests).
func Open(path string, log *logger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log: log.Component("badger")})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close cierra la base.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Put guarda (o reemplaza) el artefacto.
func (s *BadgerStore) Put(ctx context.Context, key string, a billing.Artifact) error {
	if key == "" {
		return fmt.Errorf("artifact key: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(record{ContentType: a.ContentType, Data: a.Data})
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(artifactKeyPrefix+key), data); err != nil {
			return fmt.Errorf("set artifact: %w", err)
		}
		return nil
	})
}

// Get devuelve domain.ErrNotFound si la clave no existe.
func (s *BadgerStore) Get(ctx context.Context, key string) (billing.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return billing.Artifact{}, err
	}
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(artifactKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get artifact: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return billing.Artifact{}, err
	}
	return billing.Artifact{Data: rec.Data, ContentType: rec.ContentType}, nil
}

// badgerLogger adapta badger.Logger al logger de la aplicación.
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
