package tests

import (
	"net/http"
	"testing"

	. "github.com/cartolearn/backend/apps/api/echo"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/tests"
)

func Test_orgApi_entitlements(t *testing.T) {
	f := setup(t)

	o := testutil.CreateOrg(t, f.orgRepo, "Cartório Central")
	other := testutil.CreateOrg(t, f.orgRepo, "Cartório Distrital")
	admin := testutil.CreateUser(t, f.usrRepo, "Admin", "admino", "admin@test.cd", "", "", true, true)
	member := testutil.CreateUser(t, f.usrRepo, "Member", "member", "member@test.cd", "", o.ID, false, true)

	adminToken := getToken(t, admin)
	memberToken := getToken(t, member)

	entPath := "/v1/orgs/" + o.ID + "/entitlements"
	accessPath := "/v1/orgs/" + o.ID + "/access"

	selection := func(keys ...entitlement.SelectionKey) []byte {
		if keys == nil {
			keys = []entitlement.SelectionKey{}
		}
		return marchallObj(t, SaveSelectionRequest{Selection: keys})
	}

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: entPath,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required to read", method: http.MethodGet, path: entPath, token: memberToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Admin required to save", method: http.MethodPut, path: entPath, token: memberToken,
			body: selection(entitlement.SystemKey("sys-civil")), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Unknown org", method: http.MethodGet, path: "/v1/orgs/nope/entitlements", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "organization not found"}),
		},
		{
			name: "Empty selection initially", method: http.MethodGet, path: entPath, token: adminToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"selection": []interface{}{}}),
		},
		{
			name: "Save rejects unknown targets", method: http.MethodPut, path: entPath, token: adminToken,
			body:     selection(entitlement.SystemKey("nope")),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"selection[0]": "system does not exist"}),
		},
		{
			name: "Save valid selection", method: http.MethodPut, path: entPath, token: adminToken,
			body:     selection(entitlement.SystemKey("sys-civil"), entitlement.ProductKey("prod-escr")),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"selection": []entitlement.SelectionKey{
				entitlement.SystemKey("sys-civil"), entitlement.ProductKey("prod-escr"),
			}}),
		},
		{
			name: "Read back saved selection", method: http.MethodGet, path: entPath, token: adminToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"selection": []entitlement.SelectionKey{
				entitlement.SystemKey("sys-civil"), entitlement.ProductKey("prod-escr"),
			}}),
		},
		{
			name: "Member reads own resolved access", method: http.MethodGet, path: accessPath, token: memberToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{
				"all":         false,
				"product_ids": []string{"prod-casa", "prod-escr", "prod-nasc"},
			}),
		},
		{
			name: "Member cannot read another org's access", method: http.MethodGet,
			path: "/v1/orgs/" + other.ID + "/access", token: memberToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Empty save reverts to full access", method: http.MethodPut, path: entPath, token: adminToken,
			body: selection(), wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"selection": []interface{}{}}),
		},
		{
			name: "Full access after revert", method: http.MethodGet, path: accessPath, token: memberToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, map[string]interface{}{"all": true, "product_ids": []string{}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
