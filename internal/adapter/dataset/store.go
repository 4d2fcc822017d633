package dataset

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-search-service/internal/domain/user"
	pkgerrors "user-search-service/pkg/errors"
)

// EmbeddedName is the file name of the bundled dataset.
const EmbeddedName = "users.json"

//go:embed users.json
var embedded embed.FS

// Store loads the user dataset from a JSON document on every call.
// It keeps no state between loads, so every query sees the current file.
type Store struct {
	fsys     fs.FS
	name     string
	path     string
	source   string
	log      *zap.Logger
	validate *validator.Validate
}

// NewStore creates a Store reading name from fsys.
func NewStore(fsys fs.FS, name, source string, log *zap.Logger) *Store {
	return &Store{
		fsys:     fsys,
		name:     name,
		source:   source,
		log:      log,
		validate: NewValidator(),
	}
}

// NewFileStore creates a Store backed by a JSON file on disk.
func NewFileStore(path string, log *zap.Logger) *Store {
	s := NewStore(os.DirFS(filepath.Dir(path)), filepath.Base(path), "file:"+path, log)
	s.path = path
	return s
}

// NewEmbeddedStore creates a Store serving the dataset compiled into the binary.
func NewEmbeddedStore(log *zap.Logger) *Store {
	return NewStore(embedded, EmbeddedName, "embedded:"+EmbeddedName, log)
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Path returns the file path for disk-backed stores and "" otherwise.
func (s *Store) Path() string {
	return s.path
}

// Source describes where the store reads from.
func (s *Store) Source() string {
	return s.source
}

// Load reads, decodes and validates the dataset.
func (s *Store) Load(ctx context.Context) (*domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Error("users data file not found", zap.String("source", s.source))
			return nil, pkgerrors.NewDataSourceError(s.source, "Users data file not found", err)
		}
		s.log.Error("failed to read users data", zap.String("source", s.source), zap.Error(err))
		return nil, pkgerrors.NewDataSourceError(s.source, "Failed to read users data", err)
	}

	ds, err := Decode(data, s.source, s.validate)
	if err != nil {
		s.log.Error("failed to decode users data", zap.String("source", s.source), zap.Error(err))
		return nil, err
	}

	s.log.Debug("users data loaded",
		zap.String("source", s.source),
		zap.Int("count", len(ds.Users)),
		zap.String("version", ds.Version),
	)
	return ds, nil
}

// ReadFile loads and validates a JSON dataset file, for seeding other stores.
func ReadFile(path string, log *zap.Logger) (*domain.Dataset, error) {
	return NewFileStore(path, log).Load(context.Background())
}
