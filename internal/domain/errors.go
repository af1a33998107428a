package domain

import "fmt"

// ItemNotFoundError indicates no item matched the lookup key.
// Check with errors.As.
type ItemNotFoundError struct {
	ID   int64
	GUID string
}

func (e ItemNotFoundError) Error() string {
	if e.GUID != "" {
		return fmt.Sprintf("item not found: guid=%s", e.GUID)
	}
	return fmt.Sprintf("item not found: id=%d", e.ID)
}

// ListNotFoundError indicates no list matched the lookup key.
// Check with errors.As.
type ListNotFoundError struct {
	ID   int64
	Name string
}

func (e ListNotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("list not found: name=%s", e.Name)
	}
	return fmt.Sprintf("list not found: id=%d", e.ID)
}
