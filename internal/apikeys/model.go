package apikeys

import "time"

// APIKey is a shared secret accepted on mutating routes.
type APIKey struct {
	ID          int64      `json:"id"`
	Key         string     `json:"key"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	RevokedAt   *time.Time `json:"revokedAt,omitempty"`
}

// Active reports whether the key has not been revoked.
func (k APIKey) Active() bool {
	return k.RevokedAt == nil
}
