package models

// Canonical marketplace URLs. The HTTP client may talk to a different host
// (tests point it at a local server), but entity-derived links always use
// the public addresses.
const (
	RootURL        = "https://freelansim.ru"
	TasksURL       = RootURL + "/tasks"
	FreelancersURL = RootURL + "/freelancers"
	SignInURL      = RootURL + "/users/sign_in"
	PersonalURL    = RootURL + "/my/personal"
)
