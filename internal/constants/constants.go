package constants

import "time"

const (
	DefaultBaseURL   = "https://spoo.me"
	DefaultUserAgent = "spoome-go/1.0"
	RequestTimeout   = 30 * time.Second

	DefaultAPIKeyHeader = "Authorization"
	BearerPrefix        = "Bearer "

	MaxAliasLength    = 15
	MaxEmojiCount     = 15
	MinPasswordLength = 8
	MaxURLLength      = 2048

	URLPattern   = `^(ftp|http|https)://[^ "]+$`
	AliasPattern = `^[a-zA-Z0-9_-]*$`
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Endpoint paths relative to the base URL.
const (
	PathShorten = "/"
	PathEmoji   = "/emoji"
	PathStats   = "/stats/"
	PathExport  = "/export/"
)

// Consecutive special characters rejected in passwords.
var ForbiddenPasswordRuns = []string{"..", "@@", "@.", ".@"}
