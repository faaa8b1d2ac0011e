package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is the read projection of a platform account consumed by the
// federation gateway. Protected users never leave the gateway in any shape.
type User struct {
	Id          uuid.UUID
	Handle      string
	DisplayName string
	Bio         string
	AvatarKey   string
	IsProtected bool
	CreatedAt   time.Time
}

func (u *User) ToString() string {
	return fmt.Sprintf("\n\tId: %s \n\tHandle: %s \n\tProtected: %t \n\tCreatedAt: %s)", u.Id, u.Handle, u.IsProtected, u.CreatedAt)
}
