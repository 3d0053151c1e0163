package reqres

// Literal values published by the reqres.in demo instance.
const (
	BaseURL = "https://reqres.in/"

	// EmailDomain ends every listed user email.
	EmailDomain = "@reqres.in"

	// UsersPage is the listing page the avatar and email checks run on.
	UsersPage = 2
	// SampleUserID is deleted and updated by the contract tests.
	SampleUserID = 2

	RegisteredEmail    = "eve.holt@reqres.in"
	RegisteredPassword = "pistol"
	RegisteredID       = 4
	RegisteredToken    = "QpwL5tke4Pnpja7X4"

	UnregisteredEmail      = "sydney@fife"
	MissingPasswordMessage = "Missing password"

	UpdateName = "morpheus"
	UpdateJob  = "zion resident"
)

// Endpoint paths, relative to the base URL.
const (
	usersPath     = "api/users"
	registerPath  = "api/register"
	resourcesPath = "api/unknown"
)
