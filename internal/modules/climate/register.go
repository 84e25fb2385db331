package climate

import (
	"database/sql"
	"net/http"

	"surfsup-server/internal/modules/climate/controller"
	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, params service.Params) {
	climateRepository := repository.NewRepository(db)
	climateService := service.NewService(climateRepository, params)
	climateController := controller.NewClimateController(climateService)
	climateController.RegisterRoutes(mux)
}
