package routes

import (
	"net/http"

	"darbar/admins"
	"darbar/auth"
	"darbar/booking"
	"darbar/events"
	"darbar/gallery"
	"darbar/middleware"
	"darbar/ratelim"
	"darbar/realtime"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/gallerypic/*filepath", http.Dir("static/gallerypic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/guest", rl.Limit(auth.Guest))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(middleware.Authenticate(auth.RefreshToken)))
}

func AddEventsRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/api/events", events.GetEvents)
	router.GET("/api/feed", events.GetFeed)
	router.POST("/api/events", middleware.RequireAdmin(events.CreateEvent(hub)))
	router.PUT("/api/events/:eventid", middleware.RequireAdmin(events.UpdateEvent(hub)))
	router.DELETE("/api/events/:eventid", middleware.RequireAdmin(events.DeleteEvent(hub)))
}

func AddBookingRoutes(router *httprouter.Router, hub *realtime.Hub, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(booking.CreateBooking(hub))))
	router.GET("/api/mybookings", middleware.Authenticate(booking.GetMyBookings))
	router.GET("/api/bookings", middleware.RequireAdmin(booking.GetBookings))
	router.PATCH("/api/bookings/:id/status", middleware.RequireAdmin(booking.UpdateStatus(hub)))
	router.PATCH("/api/bookings/:id/show-as-event", middleware.RequireAdmin(booking.ToggleShowAsEvent(hub)))
	router.GET("/api/bookings/:id/receipt", middleware.Authenticate(booking.PrintReceipt))
}

func AddAdminRoutes(router *httprouter.Router, hub *realtime.Hub, rl *ratelim.RateLimiter) {
	router.GET("/api/admin/status", middleware.Authenticate(admins.GetStatus))

	router.POST("/api/admin/requests", rl.Limit(middleware.Authenticate(admins.SubmitRequest(hub))))
	router.GET("/api/admin/requests", middleware.RequireSuperAdmin(admins.GetRequests))
	router.POST("/api/admin/requests/:uid/approve", middleware.RequireSuperAdmin(admins.Approve(hub)))
	router.POST("/api/admin/requests/:uid/reject", middleware.RequireSuperAdmin(admins.Reject(hub)))

	router.GET("/api/admin/admins", middleware.RequireSuperAdmin(admins.GetAdmins))
	router.GET("/api/admin/admins-by-email", middleware.RequireSuperAdmin(admins.GetAdminsByEmail))
	router.POST("/api/admin/invite", middleware.RequireSuperAdmin(admins.Invite(hub)))
	router.PATCH("/api/admin/admins/:uid/role", middleware.RequireSuperAdmin(admins.ToggleRole(hub)))
	router.DELETE("/api/admin/admins/:uid", middleware.RequireSuperAdmin(admins.DeleteGrant(hub)))
	router.DELETE("/api/admin/admins-by-email/:email", middleware.RequireSuperAdmin(admins.DeleteEmailGrant(hub)))
}

func AddGalleryRoutes(router *httprouter.Router) {
	router.GET("/api/gallery", gallery.GetGallery)
	router.POST("/api/gallery", middleware.RequireAdmin(gallery.UploadImage))
}

// AddRealtimeRoutes exposes the change feeds. Public topics stream to
// anyone; the admin dashboard topics sit behind role checks.
func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/events", realtime.WebSocketHandler(hub, realtime.TopicEvents))
	router.GET("/ws/bookings", middleware.RequireAdmin(realtime.WebSocketHandler(hub, realtime.TopicBookings)))
	router.GET("/ws/admin_requests", middleware.RequireSuperAdmin(realtime.WebSocketHandler(hub, realtime.TopicAdminRequests)))
	router.GET("/ws/admins", middleware.RequireSuperAdmin(realtime.WebSocketHandler(hub, realtime.TopicAdmins)))
}
