package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-search-service/internal/adapter/cache"
	domain "user-search-service/internal/domain/user"
	pkgerrors "user-search-service/pkg/errors"
	"user-search-service/pkg/logger"
)

// Repository defines the interface for user dataset access.
// Implementations return a consistent snapshot per call and report
// failures as *errors.DataSourceError.
type Repository interface {
	Load(ctx context.Context) (*domain.Dataset, error) // Load the current dataset snapshot
}

// Service implements the business logic for searching the user directory.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for dataset access
	cache    cache.PageCache     // Cache for computed pages
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided repository, cache, and logger.
// If cache is nil, caching will be disabled.
func New(r Repository, c cache.PageCache, log *zap.Logger) *Service {
	return &Service{repo: r, cache: c, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// carrying the message callers see.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return pkgerrors.NewValidationError("", err.Error())
	}

	e := validationErrors[0]
	switch e.Field() {
	case "Search":
		return pkgerrors.NewValidationError("search", "Search term too long")
	case "Page":
		return pkgerrors.NewValidationError("page", "Invalid page number")
	default:
		return pkgerrors.NewValidationError(strings.ToLower(e.Field()), e.Field()+" is invalid")
	}
}

// SearchUsers filters the dataset by name and returns the requested page.
// It uses cache-aside on the computed page, keyed by dataset version.
func (uc *Service) SearchUsers(ctx context.Context, in SearchUsersRequest) (*SearchUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	in.Search = strings.TrimSpace(in.Search)
	if in.Page < 1 {
		in.Page = 1
	}

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Int("search_length", len(in.Search)), zap.Int64("page", in.Page), zap.Error(err))
		return nil, formatValidationError(err)
	}

	log.Info("searching users", zap.String("search", in.Search), zap.Int64("page", in.Page))

	ds, err := uc.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load users", zap.Error(err))
		if !pkgerrors.IsDataSource(err) && ctx.Err() == nil {
			return nil, pkgerrors.NewDataSourceError("dataset", "Failed to read users data", err)
		}
		return nil, err
	}

	key := cache.PageKey{Version: ds.Version, Search: domain.Fold(in.Search), Page: in.Page}

	// Try to get from cache first
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache get error, computing page", zap.Error(err))
		} else if cached != nil {
			log.Debug("page retrieved from cache", zap.String("version", ds.Version))
			return toResponse(cached, in.Search), nil
		}
	}

	result := domain.Search(ds.Users, in.Search, in.Page)

	// Store in cache for future requests
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, result); err != nil {
			log.Warn("failed to cache page", zap.Error(err))
		}
	}

	return toResponse(result, in.Search), nil
}

// Ping reports whether the dataset can currently be loaded.
func (uc *Service) Ping(ctx context.Context) error {
	_, err := uc.repo.Load(ctx)
	return err
}

func toResponse(result *domain.PageResult, search string) *SearchUsersResponse {
	users := make([]User, len(result.Users))
	for i, du := range result.Users {
		users[i] = User{
			ID:    du.ID,
			Name:  du.Name,
			Email: du.Email,
		}
	}

	p := result.Pagination
	return &SearchUsersResponse{
		Users: users,
		Pagination: &Pagination{
			Total:      p.Total,
			Page:       p.Page,
			PerPage:    p.PerPage,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
		Search: search,
	}
}
