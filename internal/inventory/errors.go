package inventory

import "errors"

// ErrEmptyItem is returned when an inventory item has no fields.
var ErrEmptyItem = errors.New("inventory item must not be empty")
