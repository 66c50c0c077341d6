package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func ShopUUID(slug string) uuid.UUID {
	return UUID("go-storefront:shop:" + strings.ToLower(strings.TrimSpace(slug)))
}

func DomainUUID(host string) uuid.UUID {
	return UUID("go-storefront:domain:" + strings.ToLower(strings.TrimSpace(host)))
}

func MenuUUID(shopID uuid.UUID, location string) uuid.UUID {
	return UUID("go-storefront:menu:" + shopID.String() + ":" + strings.TrimSpace(location))
}

func PageUUID(shopID uuid.UUID, slug string) uuid.UUID {
	return UUID("go-storefront:page:" + shopID.String() + ":" + strings.ToLower(strings.TrimSpace(slug)))
}
