package webutil

const (
	// Header Keys
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	// Content Types
	ContentTypeJSONUTF8      = "application/json; charset=utf-8"
	ContentTypeTextPlainUTF8 = "text/plain; charset=utf-8"

	// AuthSchemeBearer prefixes the token in the Authorization header.
	AuthSchemeBearer = "Bearer "
)
