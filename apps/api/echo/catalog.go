package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core/catalog"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	cg := g.Group("/catalog", jwt)
	cg.GET("/systems", api.listSystems)
	cg.GET("/systems/:id", api.retrieveSystem)
	cg.GET("/products/:id", api.retrieveProduct)
	cg.GET("/products/:id/lessons", api.listLessons)
}

// Handlers

func (api *catalogApi) listSystems(ctx echo.Context) error {
	systems, err := api.svc.ListSystems(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing systems")
	}
	if systems == nil {
		systems = []catalog.System{}
	}
	return ctx.JSON(http.StatusOK, systems)
}

func (api *catalogApi) retrieveSystem(ctx echo.Context) error {
	sys, err := api.svc.GetSystem(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sys)
}

func (api *catalogApi) retrieveProduct(ctx echo.Context) error {
	prod, err := api.svc.GetProduct(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prod)
}

func (api *catalogApi) listLessons(ctx echo.Context) error {
	// product must exist; ListLessons alone would just return an empty set
	if _, err := api.svc.GetProduct(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	lessons, err := api.svc.ListLessons(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing lessons")
	}
	if lessons == nil {
		lessons = []catalog.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}
