package formation

import (
	"fmt"

	"github.com/mcdev12/matchday/go/internal/models"
)

// UnknownFormatError is returned when the catalog has no layout for a format
type UnknownFormatError struct {
	Format models.MatchFormat
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown match format %q", e.Format)
}
