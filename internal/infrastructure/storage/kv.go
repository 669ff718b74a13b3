// internal/infrastructure/storage/kv.go
package storage

import "strconv"

// KV is the flat durable key-value store backing the local cart and the
// persisted session token. Reads of a missing key return ok=false with no
// error; callers treat that as "empty".
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Keys in use across the runtime
const (
	KeyGuestCart = "localCart_guest"
	KeyAuthToken = "authToken"
)

// UserCartKey returns the storage key for an authenticated user's local data
func UserCartKey(userID int64) string {
	return "localCart_user_" + strconv.FormatInt(userID, 10)
}
