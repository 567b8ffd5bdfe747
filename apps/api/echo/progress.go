package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
)

var errNoOrganization = errors.New("user does not belong to an organization")

type progressApi struct {
	usrSvc     *user.Service
	tracker    *progress.Tracker
	aggregator *progress.Aggregator
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc *user.Service, tracker *progress.Tracker, aggregator *progress.Aggregator) {
	api := progressApi{usrSvc: usrSvc, tracker: tracker, aggregator: aggregator}

	pg := g.Group("/users/:id", jwt, ctxUserOrAdminMiddleware(usrSvc))
	pg.GET("/completions", api.listCompletions)
	pg.POST("/completions", api.upsertCompletion)
	pg.GET("/progress", api.report)
}

// Handlers

func (api *progressApi) listCompletions(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	recs, err := api.tracker.ListForUser(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing completions")
	}
	if recs == nil {
		recs = []progress.CompletionRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *progressApi) upsertCompletion(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data CompletionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompletionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	completed := true
	if data.Completed != nil {
		completed = *data.Completed
	}
	completedAt := time.Now()
	if data.CompletedAt != nil {
		completedAt = *data.CompletedAt
	}

	if err := api.tracker.Upsert(ctx.Request().Context(), usr.ID, data.LessonID, completed, completedAt); err != nil {
		return errors.Wrap(err, "upserting completion")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *progressApi) report(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	if usr.OrgID == "" {
		return core.NewValidationError(errNoOrganization)
	}

	report, err := api.aggregator.ComputeProgress(ctx.Request().Context(), usr.OrgID, usr.ID)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, report)
}
