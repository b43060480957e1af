package api

// Cache-Control header values.
const (
	CachePublicShort = "public, max-age=60"
	CacheNoStore     = "no-store"
)

// Operation tags grouping routes in the OpenAPI document.
const (
	tagHealth     = "Health"
	tagAuth       = "Authentication"
	tagUsers      = "Users"
	tagTags       = "Tags"
	tagImages     = "Images"
	tagEngagement = "Engagement"
	tagUploads    = "Uploads"
	tagAdmin      = "Admin"
)

var bearerSecurity = []map[string][]string{{"bearer": {}}}
