package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/tests"
)

func Test_progressApi(t *testing.T) {
	f := setup(t)

	o := testutil.CreateOrg(t, f.orgRepo, "Cartório Central")
	member := testutil.CreateUser(t, f.usrRepo, "Member", "member", "member@test.cd", "", o.ID, false, true)
	stranger := testutil.CreateUser(t, f.usrRepo, "Stranger", "stranger", "stranger@test.cd", "", o.ID, false, true)

	memberToken := getToken(t, member)
	strangerToken := getToken(t, stranger)

	// Casamento (1 lesson) and Escrituras (9 lessons) entitled
	now := time.Now().UTC()
	err := f.entRepo.ReplaceAll(context.Background(), o.ID, []entitlement.Entitlement{
		{OrgID: o.ID, Kind: entitlement.KindProduct, TargetID: "prod-casa", IsActive: true, GrantedAt: now},
		{OrgID: o.ID, Kind: entitlement.KindProduct, TargetID: "prod-escr", IsActive: true, GrantedAt: now},
	})
	if err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}

	completionsPath := "/v1/users/" + member.ID + "/completions"
	progressPath := "/v1/users/" + member.ID + "/progress"

	completion := func(lessonID string) []byte {
		return marchallObj(t, map[string]string{"lesson_id": lessonID})
	}

	wantReport := progress.Report{
		PerProduct: []progress.ProductProgress{
			{ProductID: "prod-casa", ProductName: "Casamento", Total: 1, Completed: 1, Percentage: 100},
			{ProductID: "prod-escr", ProductName: "Escrituras", Total: 9, Completed: 0, Percentage: 0},
		},
		Overall: progress.OverallProgress{Total: 10, Completed: 1, Percentage: 10},
	}

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: completionsPath,
			body: completion("casa-1"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Other users' completions hidden", method: http.MethodPost, path: completionsPath,
			token: strangerToken, body: completion("casa-1"),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Lesson id required", method: http.MethodPost, path: completionsPath,
			token: memberToken, body: completion(""),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"lesson_id": "this field is required"}),
		},
		{
			name: "Mark lesson completed", method: http.MethodPost, path: completionsPath,
			token: memberToken, body: completion("casa-1"), wantCode: http.StatusNoContent,
		},
		{
			name: "Idempotent re-completion", method: http.MethodPost, path: completionsPath,
			token: memberToken, body: completion("casa-1"), wantCode: http.StatusNoContent,
		},
		{
			name: "Progress report sums counts", method: http.MethodGet, path: progressPath,
			token: memberToken, wantCode: http.StatusOK, wantData: marchallObj(t, wantReport),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// one record only, despite the double completion
	recs, err := f.tracker.ListForUser(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("ListForUser() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 completion record, got %d", len(recs))
	}
}
