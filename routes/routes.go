package routes

import (
	"net/http"

	"worknest/auth"
	"worknest/chat"
	"worknest/events"
	"worknest/middleware"
	"worknest/notifications"
	"worknest/office"
	"worknest/parking"
	"worknest/profile"
	"worknest/ratelim"

	"github.com/julienschmidt/httprouter"
)

// RoutesWrapper registers every API route on the router.
func RoutesWrapper(router *httprouter.Router, hub *chat.Hub) {
	AddAuthRoutes(router)
	AddProfileRoutes(router)
	AddParkingRoutes(router)
	AddOfficeRoutes(router)
	AddChatRoutes(router, hub)
	AddEventRoutes(router)
	AddNotificationRoutes(router, hub)
	AddStaticRoutes(router)
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/cars/*filepath", http.Dir("static/cars"))
	router.ServeFiles("/static/carpic/*filepath", http.Dir("static/carpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", ratelim.RateLimit(middleware.Authenticate(profile.UpdateProfile)))
	router.GET("/api/users", middleware.Authenticate(profile.ListUsers))
	router.GET("/api/users/:userid", middleware.Authenticate(profile.GetUser))

	router.GET("/api/cars", profile.ListCarAvatars)
	router.PUT("/api/profile/car", ratelim.RateLimit(middleware.Authenticate(profile.SetCarAvatar)))
	router.POST("/api/profile/car/upload", ratelim.RateLimit(middleware.Authenticate(profile.UploadCarImage)))
}

func AddParkingRoutes(router *httprouter.Router) {
	router.GET("/api/parking", middleware.Authenticate(parking.GetParking))
	router.GET("/ws/parking", parking.HandleWS)

	router.POST("/api/parking/reservations", ratelim.RateLimit(middleware.Authenticate(parking.CreateReservation)))
	router.GET("/api/parking/reservations", middleware.Authenticate(parking.ListReservations))
	router.DELETE("/api/parking/reservations/:resid", middleware.Authenticate(parking.DeleteReservation))
	router.GET("/api/parking/reservations/:resid/permit", middleware.Authenticate(parking.PrintPermit))

	router.POST("/api/parking/regrid", middleware.RequireRole("admin", parking.Regrid))
	router.DELETE("/api/parking/reservations", middleware.RequireRole("admin", parking.DeleteAllReservations))
	router.POST("/api/parking/slots/:slotid/disable", middleware.RequireRole("admin", parking.SetSlotDisabled(true)))
	router.POST("/api/parking/slots/:slotid/enable", middleware.RequireRole("admin", parking.SetSlotDisabled(false)))
}

func AddOfficeRoutes(router *httprouter.Router) {
	router.GET("/api/office/seats", middleware.Authenticate(office.ListSeats))
	router.PUT("/api/office/seats", middleware.RequireRole("admin", office.DefineSeats))
	router.POST("/api/office/seats/:seatid/reserve", ratelim.RateLimit(middleware.Authenticate(office.ReserveSeat)))
	router.POST("/api/office/seats/:seatid/release", middleware.Authenticate(office.ReleaseSeat))
	router.POST("/api/office/swap", middleware.RequireRole("admin", office.SwapSeats))
	router.GET("/api/office/seats/recommend", middleware.Authenticate(office.RecommendSeat))
}

func AddChatRoutes(router *httprouter.Router, hub *chat.Hub) {
	router.GET("/api/chat/rooms", middleware.Authenticate(chat.ListRooms))
	router.POST("/api/chat/rooms", ratelim.RateLimit(middleware.Authenticate(chat.OpenDirectRoom)))
	router.GET("/api/chat/rooms/:room/messages", middleware.Authenticate(chat.GetMessages))
	router.GET("/ws/chat/:room", chat.WebSocketHandler(hub))
}

func AddEventRoutes(router *httprouter.Router) {
	router.GET("/api/events", middleware.Authenticate(events.GetEvents))
	router.POST("/api/events", ratelim.RateLimit(middleware.Authenticate(events.CreateEvent)))
	router.GET("/api/events/:eventid", middleware.Authenticate(events.GetEvent))
	router.DELETE("/api/events/:eventid", middleware.Authenticate(events.DeleteEvent))
	router.POST("/api/events/:eventid/like", middleware.Authenticate(events.ToggleLike))
	router.POST("/api/events/:eventid/invite", ratelim.RateLimit(middleware.Authenticate(events.Invite)))
}

func AddNotificationRoutes(router *httprouter.Router, hub *chat.Hub) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.POST("/api/notifications/:notifid/read", middleware.Authenticate(notifications.MarkRead))
	router.PUT("/api/notifications/read-all", middleware.Authenticate(notifications.MarkAllRead))
	router.DELETE("/api/notifications", middleware.Authenticate(notifications.ClearNotifications))
	router.GET("/ws/notifications", chat.NotifySocketHandler(hub))
}
