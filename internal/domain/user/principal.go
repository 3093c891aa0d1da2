package user

// Principal is the authenticated identity attached to a request. The
// engine treats it as opaque; verification happens outside this module.
type Principal struct {
	ID   string
	Name string
}
