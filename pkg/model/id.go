package model

import (
	"fmt"
	"strconv"
)

// ParseID parses a record id as it appears in a URL or on the command
// line. Ids are positive and span the full range of uint, matching the
// bigserial primary keys.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
