package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/org"
)

type orgApi struct {
	svc      *org.Service
	editor   *entitlement.Editor
	resolver *entitlement.Resolver
}

func registerOrgAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *org.Service, editor *entitlement.Editor, resolver *entitlement.Resolver) {
	api := orgApi{svc: svc, editor: editor, resolver: resolver}

	og := g.Group("/orgs", jwt)

	// org management is admin-only
	og.POST("", api.create, adminMiddleware())
	og.GET("", api.query, adminMiddleware())

	dg := og.Group("/:id")
	dg.GET("", api.retrieve, adminMiddleware())
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())

	// entitlements: admins edit, members may read their own resolved access
	dg.GET("/entitlements", api.currentSelection, adminMiddleware())
	dg.PUT("/entitlements", api.saveSelection, adminMiddleware())
	dg.GET("/access", api.access, orgMemberOrAdminMiddleware("id"))
}

// Handlers

func (api *orgApi) create(ctx echo.Context) error {
	var data org.NewOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrganization")
	}
	if err := data.Validate(core.Validate, api.svc); err != nil {
		return err
	}

	o, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating organization")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *orgApi) query(ctx echo.Context) error {
	orgs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying organizations")
	}
	if orgs == nil {
		orgs = []org.Organization{}
	}
	return ctx.JSON(http.StatusOK, orgs)
}

func (api *orgApi) retrieve(ctx echo.Context) error {
	o, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *orgApi) update(ctx echo.Context) error {
	o, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	var data org.UpdateOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateOrganization")
	}
	if err := data.Validate(core.Validate, o, api.svc); err != nil {
		return err
	}

	o, err = api.svc.Update(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating organization")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *orgApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting organization")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *orgApi) currentSelection(ctx echo.Context) error {
	sel, err := api.editor.CurrentSelection(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Selection: sel.Keys()})
}

func (api *orgApi) saveSelection(ctx echo.Context) error {
	var data SaveSelectionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveSelectionRequest")
	}

	sel := entitlement.NewSelection(data.Selection...)
	if err := api.editor.Save(ctx.Request().Context(), ctx.Param("id"), sel); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SelectionResponse{Selection: sel.Keys()})
}

func (api *orgApi) access(ctx echo.Context) error {
	set, err := api.resolver.Resolve(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	resp := AccessResponse{All: set.All, ProductIDs: make([]string, 0, set.Len())}
	for pid := range set.ProductIDs {
		resp.ProductIDs = append(resp.ProductIDs, pid)
	}
	sort.Strings(resp.ProductIDs)
	return ctx.JSON(http.StatusOK, resp)
}
