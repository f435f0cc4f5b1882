package route_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"huddygate/src-server/claim"
	"huddygate/src-server/model"
	"huddygate/src-server/route"
	"huddygate/src-server/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testPasscode = "open-sesame"

type testServer struct {
	*httptest.Server
	db  *bun.DB
	svc *claim.Service
}

func newTestServer(t *testing.T, passcode string) *testServer {
	t.Helper()
	t.Setenv("STAFF_PASSCODE", passcode)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STATIC_WEB_CLIENT_DIR", "")

	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:route_%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	if err := model.CreateSchema(context.Background(), db); err != nil {
		t.Fatal(err)
	}

	svc := claim.NewService(db, claim.Options{})
	as := &utils.AppState{Config: utils.NewConfig(), BunDB: db, Claims: svc}
	srv := httptest.NewServer(route.NewMux(as, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, db: db, svc: svc}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, route.RespBody, http.Header) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var respBody route.RespBody
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode, respBody, resp.Header
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	code, body, _ := ts.do(t, http.MethodPost, "/auth", "", map[string]string{"passcode": testPasscode})
	if code != http.StatusOK {
		t.Fatalf("login failed: %d %+v", code, body)
	}
	token, _ := body.Data.(map[string]any)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestClaimStatusMapping(t *testing.T) {
	ts := newTestServer(t, testPasscode)
	token := ts.login(t)

	for _, reg := range []claim.Registration{
		{Name: "A", Email: "x@y.com", UniqueCode: "A1"},
		{Name: "A", Email: "x@y.com", UniqueCode: "A2"},
	} {
		if code, body, _ := ts.do(t, http.MethodPost, "/register", "", reg); code != http.StatusOK {
			t.Fatalf("register: %d %+v", code, body)
		}
	}

	tests := []struct {
		name       string
		path       string
		code       string
		wantCode   int
		wantStatus string
		wantReason claim.Reason
	}{
		{"gift before entry", "/claims/gift", "A1", http.StatusConflict, route.STATUS_DENIED, claim.REASON_NOT_ENTERED},
		{"unknown code", "/claims/entry", "ZZZ", http.StatusNotFound, route.STATUS_DENIED, claim.REASON_NOT_FOUND},
		{"blank code", "/claims/entry", "  ", http.StatusBadRequest, route.STATUS_INVALID, ""},
		{"entry", "/claims/entry", "A1", http.StatusOK, route.STATUS_SUCCESS, ""},
		{"gift via sibling", "/claims/gift", "A2", http.StatusOK, route.STATUS_SUCCESS, ""},
		{"gift again", "/claims/gift", "A1", http.StatusConflict, route.STATUS_DENIED, claim.REASON_ALREADY_TAKEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := ts.do(t, http.MethodPost, tt.path, token, route.CodeReqBody{Code: tt.code})
			if code != tt.wantCode || body.Status != tt.wantStatus || body.Reason != tt.wantReason {
				t.Errorf("got %d %+v", code, body)
			}
		})
	}

	code, body, _ := ts.do(t, http.MethodGet, "/attendees/A2", token, nil)
	if code != http.StatusOK {
		t.Fatalf("lookup: %d %+v", code, body)
	}
	if data := body.Data.(map[string]any); data["isEntered"] != true || data["isGifted"] != true {
		t.Errorf("unexpected lookup record: %v", data)
	}

	code, body, _ = ts.do(t, http.MethodGet, "/dashboard/stats", token, nil)
	if code != http.StatusOK {
		t.Fatalf("stats: %d %+v", code, body)
	}
	if data := body.Data.(map[string]any); data["registered"] != 2.0 || data["entered"] != 1.0 || data["gifted"] != 1.0 {
		t.Errorf("unexpected stats: %v", data)
	}
}

func TestStoreUnavailableIs503(t *testing.T) {
	ts := newTestServer(t, "")
	ts.db.Close()

	code, body, header := ts.do(t, http.MethodPost, "/claims/entry", "", route.CodeReqBody{Code: "A1"})
	if code != http.StatusServiceUnavailable || body.Status != route.STATUS_UNAVAILABLE {
		t.Errorf("got %d %+v", code, body)
	}
	if header.Get("Retry-After") != "1" {
		t.Errorf("missing Retry-After, got %q", header.Get("Retry-After"))
	}
}

func TestStaffGate(t *testing.T) {
	ts := newTestServer(t, testPasscode)

	if code, _, _ := ts.do(t, http.MethodGet, "/dashboard/stats", "", nil); code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", code)
	}
	if code, _, _ := ts.do(t, http.MethodGet, "/dashboard/stats", "garbage.token.here", nil); code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", code)
	}
	if code, _, _ := ts.do(t, http.MethodPost, "/auth", "", map[string]string{"passcode": "nope"}); code != http.StatusUnauthorized {
		t.Errorf("wrong passcode: expected 401, got %d", code)
	}

	token := ts.login(t)
	if code, _, _ := ts.do(t, http.MethodGet, "/dashboard/stats", token, nil); code != http.StatusOK {
		t.Errorf("valid token: expected 200, got %d", code)
	}

	// public routes stay public
	if code, _, _ := ts.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", code)
	}
	if code, _, _ := ts.do(t, http.MethodGet, "/metrics", "", nil); code != http.StatusOK {
		t.Errorf("metrics: expected 200, got %d", code)
	}
}

func TestOpenGateWithoutPasscode(t *testing.T) {
	ts := newTestServer(t, "")
	if code, _, _ := ts.do(t, http.MethodGet, "/dashboard/entered", "", nil); code != http.StatusOK {
		t.Errorf("expected an open gate, got %d", code)
	}
}

func TestDashboardQuery(t *testing.T) {
	ts := newTestServer(t, "")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		code := fmt.Sprintf("Q%d", i)
		if _, err := ts.svc.Register(ctx, claim.Registration{Name: code, Email: code + "@x.io", UniqueCode: code}); err != nil {
			t.Fatal(err)
		}
		if _, err := ts.svc.ClaimEntry(ctx, code); err != nil {
			t.Fatal(err)
		}
	}

	code, body, _ := ts.do(t, http.MethodGet, "/dashboard/entered?page=2&pageSize=2&sortBy=name&order=asc", "", nil)
	if code != http.StatusOK {
		t.Fatalf("got %d %+v", code, body)
	}
	data := body.Data.(map[string]any)
	if data["totalCount"] != 3.0 || len(data["records"].([]any)) != 1 {
		t.Errorf("unexpected page: %v", data)
	}

	for _, query := range []string{"page=x", "pageSize=1000", "sortBy=password", "order=up"} {
		if code, _, _ := ts.do(t, http.MethodGet, "/dashboard/gifted?"+query, "", nil); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", query, code)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, "")
	if code, _, _ := ts.do(t, http.MethodPost, "/register", "", "{not json"); code != http.StatusBadRequest {
		t.Errorf("bad json: expected 400, got %d", code)
	}
	if code, _, _ := ts.do(t, http.MethodPost, "/register", "", claim.Registration{Name: "A", Email: "nope"}); code != http.StatusBadRequest {
		t.Errorf("bad email: expected 400, got %d", code)
	}
}
