package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getcatalog "cleanops/http-server/catalog/get"
	savecatalog "cleanops/http-server/catalog/save"
	upcatalog "cleanops/http-server/catalog/update"
	getcustomers "cleanops/http-server/customers/get"
	savecustomers "cleanops/http-server/customers/save"
	upcustomers "cleanops/http-server/customers/update"
	"cleanops/http-server/events"
	getexpenses "cleanops/http-server/expenses/get"
	saveexpenses "cleanops/http-server/expenses/save"
	upexpenses "cleanops/http-server/expenses/update"
	generate_excel "cleanops/http-server/generate-report/generate-excel"
	getnotifications "cleanops/http-server/notifications/get"
	upnotifications "cleanops/http-server/notifications/update"
	getorders "cleanops/http-server/orders/get"
	saveorders "cleanops/http-server/orders/save"
	uporders "cleanops/http-server/orders/update"
	assignroutes "cleanops/http-server/routes/assign"
	getroutes "cleanops/http-server/routes/get"
	saveroutes "cleanops/http-server/routes/save"
	uproutes "cleanops/http-server/routes/update"
	getteams "cleanops/http-server/teams/get"
	saveteams "cleanops/http-server/teams/save"
	upteams "cleanops/http-server/teams/update"
	getworkers "cleanops/http-server/workers/get"
	saveworkers "cleanops/http-server/workers/save"
	"cleanops/http-server/workers/transfer"
	upworkers "cleanops/http-server/workers/update"
	"cleanops/internal/config"
	"cleanops/internal/eventbus"
	"cleanops/internal/middleware/auth"
	"cleanops/internal/service/orderflow"
	"cleanops/internal/service/report"
	"cleanops/internal/service/routing"
	"cleanops/internal/service/teamflow"
	"cleanops/internal/storage/mysql"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	storage *mysql.Storage,
	bus *eventbus.Bus,
	orderFlow *orderflow.Service,
	teamFlow *teamflow.Service,
	assigner *routing.Coordinator,
	excel *report.ExcelService,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"}, // Разрешаем запросы с фронтенда
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Клиенты
	router.Get("/api/customers", getcustomers.GetCustomers(log, storage))
	router.Get("/api/customers/{id}", getcustomers.GetCustomer(log, storage))
	router.Post("/api/customers", savecustomers.SaveCustomer(log, storage))
	router.Put("/api/customers/{id}", upcustomers.UpdateCustomer(log, storage))

	// Сотрудники
	router.Get("/api/workers/all", getworkers.GetWorkers(log, storage))
	router.Get("/api/workers/available", getworkers.GetAvailableWorkers(log, storage))
	router.Post("/api/workers", saveworkers.SaveWorker(log, storage, bus))
	router.Put("/api/workers/{id}/status", upworkers.UpdateWorkerStatus(log, storage, bus))
	// перевод сотрудника между бригадами
	router.Post("/api/workers/{id}/transfer", transfer.TransferWorker(log, teamFlow))

	// Бригады
	router.Get("/api/teams", getteams.GetTeams(log, storage))
	router.Post("/api/teams", saveteams.SaveTeam(log, storage, bus))
	router.Get("/api/teams/{id}/members", getteams.GetTeamMembers(log, storage))
	router.Post("/api/teams/{id}/members", saveteams.AddTeamMember(log, teamFlow))
	router.Delete("/api/teams/{id}/members/{workerID}", upteams.RemoveTeamMember(log, teamFlow))
	router.Get("/api/teams/{id}/eligible-leaders", getteams.GetEligibleLeaders(log, teamFlow))
	router.Put("/api/teams/{id}/leader", upteams.ReplaceLeader(log, teamFlow))

	// Заказы
	router.Get("/api/orders", getorders.GetOrdersFilter(log, storage))
	router.Get("/api/orders/available", getorders.GetAvailableOrders(log, storage))
	router.Get("/api/orders/{id}", getorders.GetOrderDetails(log, storage))
	router.Post("/api/orders", saveorders.SaveOrder(log, storage, bus))
	router.Put("/api/orders/{id}", uporders.UpdateOrder(log, storage, bus))
	router.Post("/api/orders/{id}/status", uporders.UpdateOrderStatus(log, orderFlow))
	router.Post("/api/orders/{id}/confirmation", uporders.UpdateConfirmation(log, orderFlow))
	router.Post("/api/orders/{id}/rating", uporders.SubmitRating(log, orderFlow))

	// Маршруты бригад
	router.Get("/api/routes", getroutes.GetRoutes(log, storage))
	router.Get("/api/routes/{id}", getroutes.GetRouteDetails(log, storage))
	router.Post("/api/routes", saveroutes.SaveRoute(log, storage, bus))
	router.Post("/api/routes/{id}/status", uproutes.UpdateRouteStatus(log, storage, bus))
	router.Delete("/api/routes/{id}", uproutes.DeleteRoute(log, storage, bus))
	// назначение заказов на маршрут (итоговый упорядоченный список)
	router.Post("/api/routes/{id}/assign", assignroutes.AssignOrders(log, assigner))

	// Расходы
	router.Get("/api/expenses", getexpenses.GetExpenses(log, storage))
	router.Post("/api/expenses", saveexpenses.SaveExpense(log, storage, bus))
	router.Post("/api/expenses/{id}/status", upexpenses.UpdateExpenseStatus(log, storage, bus))

	// Уведомления
	router.Get("/api/notifications", getnotifications.GetNotifications(log, storage))
	router.Post("/api/notifications/{id}/read", upnotifications.MarkRead(log, storage))

	// Каталог услуг (чтение открыто)
	router.Get("/api/services", getcatalog.GetServices(log, storage))

	// генерация excel по расходам
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, excel))

	// SSE: сигнал фронтенду перечитать данные
	router.Get("/api/events", events.Stream(log, bus))

	// adminPanel: CRUD каталога услуг
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/services", getcatalog.GetAllServicesAdmin(log, storage))
	adminRouter.Post("/services", savecatalog.SaveServiceAdmin(log, storage))
	adminRouter.Put("/services/{code}", upcatalog.UpdateServiceAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	// Статика, vue
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("Папка фронтенда не найдена, отдаём только API", "path", frontendDir)
		return router
	}

	//Отдаём статические файлы: assets/, js/, css/, img/, favicon.ico и т.д.
	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	//SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		// Проверяем, существует ли файл — если да, отдаем его
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		// Иначе — SPA
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
