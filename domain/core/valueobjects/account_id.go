package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// AccountID is a value object representing a unique account identifier
// Value objects are immutable and have no identity beyond their value
type AccountID struct {
	value string
}

// NewAccountID creates a new random AccountID
func NewAccountID() AccountID {
	return AccountID{value: uuid.New().String()}
}

// NewAccountIDFromString creates an AccountID from an existing string
func NewAccountIDFromString(id string) (AccountID, error) {
	if id == "" {
		return AccountID{}, errors.New("account ID cannot be empty")
	}
	if !isValidUUID(id) {
		return AccountID{}, errors.New("account ID must be a valid UUID")
	}
	return AccountID{value: id}, nil
}

// String returns the string representation of the AccountID
func (id AccountID) String() string {
	return id.value
}

// Equals checks if two AccountIDs are equal
func (id AccountID) Equals(other AccountID) bool {
	return id.value == other.value
}

// IsZero checks if the AccountID is the zero value
func (id AccountID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id AccountID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *AccountID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("AccountID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
