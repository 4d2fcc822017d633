package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-playground/validator/v10"

	domain "user-search-service/internal/domain/user"
	pkgerrors "user-search-service/pkg/errors"
)

// record is the on-disk shape of a user. Pointers let validation tell a
// missing field apart from a zero value. A record without a name is kept;
// it is listed but never matches a search.
type record struct {
	ID    *int64  `json:"id" validate:"required"`
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"required"`
}

// Decode parses a JSON array of user records and validates every record.
// Any mismatch is reported as a DataSourceError naming source.
func Decode(data []byte, source string, validate *validator.Validate) (*domain.Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, pkgerrors.NewDataSourceError(source, "Invalid JSON data: empty document", nil)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, pkgerrors.NewDataSourceError(source, "Invalid users data format", err)
		}
		return nil, pkgerrors.NewDataSourceError(source, "Invalid JSON data: "+err.Error(), err)
	}
	if records == nil {
		return nil, pkgerrors.NewDataSourceError(source, "Invalid users data format", nil)
	}

	users := make([]domain.User, len(records))
	seen := make(map[int64]int, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, pkgerrors.NewDataSourceError(source, recordMessage(i, err), err)
		}
		if prev, ok := seen[*r.ID]; ok {
			return nil, pkgerrors.NewDataSourceError(source,
				fmt.Sprintf("Invalid users data format: record %d repeats id %d of record %d", i, *r.ID, prev), nil)
		}
		seen[*r.ID] = i

		users[i] = domain.User{
			ID:    *r.ID,
			Email: *r.Email,
		}
		if r.Name != nil {
			users[i].Name = *r.Name
		}
	}

	return &domain.Dataset{
		Users:   users,
		Version: strconv.FormatUint(xxhash.Sum64(data), 16),
		Source:  source,
	}, nil
}

// Fingerprint computes a content version for users that were not loaded
// from raw bytes, such as rows read from a database.
func Fingerprint(users []domain.User) string {
	h := xxhash.New()
	for _, u := range users {
		_, _ = fmt.Fprintf(h, "%d\x00%s\x00%s\n", u.ID, u.Name, u.Email)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// recordMessage describes the first failing field of a record.
func recordMessage(index int, err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return fmt.Sprintf("Invalid users data format: record %d is missing %s", index, validationErrors[0].Field())
	}
	return fmt.Sprintf("Invalid users data format: record %d is invalid", index)
}
