package types

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("the specified resource ID is not a valid integer")

// ID is the integer identifier the backend assigns to every record.
type ID uint64

// ParseID parses a decimal ID.
func ParseID(s string) (ID, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || parsed == 0 {
		return 0, ErrInvalidID
	}
	return ID(parsed), nil
}

// ParseOptionalID parses a form value. The empty string is no ID.
func ParseOptionalID(s string) (*ID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (i ID) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// UnmarshalParam implements gin's binding.BindUnmarshaler for
// URI and query binding.
func (i *ID) UnmarshalParam(p string) error {
	parsed, err := ParseID(p)
	if err != nil {
		return err
	}

	*i = parsed
	return nil
}

// Equal reports whether an optional ID is set to i.
func (i ID) Equal(o *ID) bool {
	return o != nil && *o == i
}
