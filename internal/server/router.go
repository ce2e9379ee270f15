package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	cartcontroller "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/cart/controller"
	"github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/metrics"
	ordercontroller "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/order/controller"
	productcontroller "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/product/controller"
	statscontroller "github.com/ThanhPhatFPT/asm-fainal-vtp-fis/internal/stats/controller"
)

func NewRouter(
	orderCtrl *ordercontroller.OrderController,
	cartCtrl *cartcontroller.CartController,
	productCtrl *productcontroller.ProductController,
	statsCtrl *statscontroller.StatsController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productCtrl.ListProducts)
			r.Get("/{productId}", productCtrl.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartCtrl.GetCart)
			r.Post("/items", cartCtrl.AddItem)
			r.Put("/items/{productId}", cartCtrl.UpdateQuantity)
			r.Delete("/items/{productId}", cartCtrl.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderCtrl.CreateOrder)
			r.Get("/", orderCtrl.ListOrders)
			r.Get("/me", orderCtrl.ListMyOrders)
			r.Get("/{orderId}", orderCtrl.GetOrder)
			r.Put("/{orderId}/status", orderCtrl.UpdateStatus)
			r.Post("/{orderId}/cancel", orderCtrl.CancelOrder)
			r.Post("/{orderId}/confirm-delivery", orderCtrl.ConfirmDelivery)
		})

		r.Get("/stats/orders", statsCtrl.GetSummary)
	})

	logger.Info("router initialized")
	return r
}
