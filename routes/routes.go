package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/session"
	"github.com/junaidrashid-git/storefront/store"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Store    store.Store
	Sessions *session.Store
	Secret   []byte
	Hub      *orderControllers.Hub
}

// SetupRoutes is the single entry-point that wires up the public auth
// routes, the routes any session may use and the role-scoped views.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Hub == nil {
		d.Hub = orderControllers.NewHub()
	}

	// 1️⃣ Public auth routes
	SetupAuthRoutes(r, d)

	// 2️⃣ Catalog and account (any signed-in user)
	SetupUserRoutes(r, d)

	// 3️⃣ Role-scoped handler sets
	for _, v := range []View{CustomerView{}, AdminView{}} {
		mountView(r, d, v)
	}
}
