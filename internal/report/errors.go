package report

import "errors"

// ErrInvalidFileName is returned when an address cannot be used as a
// dump file name.
var ErrInvalidFileName = errors.New("address is not a valid file name")
