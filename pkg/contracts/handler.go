// Package contracts holds the interfaces the application shell shares with
// the domain packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain handler group (settings, exceptions,
// bookings, availability) so the scheduling binary can mount them all on one
// router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
