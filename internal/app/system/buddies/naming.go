// internal/app/system/buddies/naming.go
package buddies

import (
	"fmt"
	"strings"

	"github.com/dalemusser/coachhub/internal/domain/models"
)

// GenericRoomName is the stored room name and the last rung of the
// display-name ladder.
const GenericRoomName = "Accountability Buddies"

// maxDisplayNameLen caps the joined-names form. Past this the label stops
// fitting chat list rows and the count summary reads better.
const maxDisplayNameLen = 35

// DisplayName derives a viewer-facing room label from buddy profiles (the
// viewer already excluded). The ladder, in order:
//
//	"You, Alice B. & Carol D."          full short names
//	"You & 3 accountability buddies"    joined form too long
//	"Accountability Buddies"            no buddy names resolve
//
// It never fails; unresolvable profiles just drop off the ladder.
func DisplayName(buddies []models.User) string {
	names := make([]string, 0, len(buddies))
	for _, b := range buddies {
		if n := shortName(b); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return GenericRoomName
	}

	joined := "You, " + strings.Join(names, " & ")
	if len(joined) > maxDisplayNameLen {
		return fmt.Sprintf("You & %d accountability buddies", len(names))
	}
	return joined
}

// shortName formats a user as "First L.", first name plus last initial.
func shortName(u models.User) string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)

	var b strings.Builder
	if first != "" {
		b.WriteString(first)
	}
	if last != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string([]rune(last)[:1]))
		b.WriteByte('.')
	}
	return b.String()
}
