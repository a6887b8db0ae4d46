package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.With(middlewares.Authentication).Post("/", appointmentController.CreateBooking)
	router.With(middlewares.Authentication).Get("/{appointmentID}", appointmentController.GetAppointment)
	router.With(middlewares.Authentication).Delete("/{appointmentID}", appointmentController.CancelAppointment)
}
