package luxs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woonstad/datamakelaar/pkg/models"
)

// newTestServer returns a server that issues tokens on /oauth2/token and
// dispatches everything else to handler.
func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			http.Error(w, "unsupported grant type", http.StatusBadRequest)
			return
		}
		if r.Form.Get("client_id") != "test-id" || r.Form.Get("client_secret") != "test-secret" {
			http.Error(w, "invalid client", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/", handler)
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		BaseURL:      srv.URL,
		AuthURL:      srv.URL + "/oauth2/token",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Setenv("LUXS_CLIENT_ID", "")
	t.Setenv("LUXS_CLIENT_SECRET", "")

	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestPingBadCredentials(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	client, err := NewClient(ClientConfig{
		ClientID:     "wrong-id",
		ClientSecret: "wrong-secret",
		BaseURL:      srv.URL,
		AuthURL:      srv.URL + "/oauth2/token",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected authentication error")
	}
}

func TestMetadata(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/metadata" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if got := r.URL.Query().Get("objectType"); got != "Building" {
			t.Errorf("expected objectType=Building, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"objectTypes":[{"name":"Building","attributes":[
			{"name":"Dakpartner","type":"STRING","attributeValueOptions":["Oranjedak West BV"]},
			{"name":"Jaar laatste dakonderhoud","type":"DATE","dateFormat":"yyyy"}
		]}]}`)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	md, err := client.Metadata(context.Background(), "Building")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	ot := md.ObjectTypeNamed("Building")
	if ot == nil {
		t.Fatal("expected Building object type")
	}
	if len(ot.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(ot.Attributes))
	}
	attr := ot.AttributeNamed("Jaar laatste dakonderhoud")
	if attr == nil {
		t.Fatal("expected date attribute")
	}
	if attr.Type != TypeDate || attr.DateFormat != "yyyy" {
		t.Errorf("expected DATE/yyyy, got %s/%s", attr.Type, attr.DateFormat)
	}
}

func TestObjectsBareArray(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/objects/filterByObjectType" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("onlyActive"); got != "true" {
			t.Errorf("expected onlyActive=true, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"objectType":"Building","identifier":"B-001","attributes":{"Dakpartner":"Oranjedak West BV"}}]`)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	page, err := client.Objects(context.Background(), ObjectQuery{
		ObjectType: "Building",
		OnlyActive: true,
	})
	if err != nil {
		t.Fatalf("Objects failed: %v", err)
	}
	if page.TotalCount != 1 || len(page.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(page.Objects))
	}
	if page.Objects[0].Identifier != "B-001" {
		t.Errorf("expected identifier B-001, got %q", page.Objects[0].Identifier)
	}
	if got := page.Objects[0].Attribute("Dakpartner"); got != "Oranjedak West BV" {
		t.Errorf("unexpected attribute value %q", got)
	}
}

func TestObjectsEnvelope(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"objects":[{"objectType":"Building","identifier":"B-002","attributes":{}}],
			"totalCount":41,"totalPages":3,"currentPage":1}`)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	page, err := client.Objects(context.Background(), ObjectQuery{ObjectType: "Building", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("Objects failed: %v", err)
	}
	if page.TotalCount != 41 || page.TotalPages != 3 {
		t.Errorf("envelope fields not preserved: %+v", page)
	}
}

func TestAllObjectsPaginates(t *testing.T) {
	// Three pages of 2, 2, 1 objects with page size 2.
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		counts := map[string]int{"0": 2, "1": 2, "2": 1}
		n, ok := counts[page]
		if !ok {
			t.Errorf("unexpected page requested: %q", page)
			n = 0
		}
		objects := make([]models.Object, n)
		for i := range objects {
			objects[i] = models.Object{
				ObjectType: "Building",
				Identifier: fmt.Sprintf("B-%s-%d", page, i),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"objects": objects})
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	all, err := client.AllObjects(context.Background(), ObjectQuery{ObjectType: "Building", PageSize: 2})
	if err != nil {
		t.Fatalf("AllObjects failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 objects across pages, got %d", len(all))
	}
}

func TestUpdateObjects(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/objects" || r.Method != http.MethodPut {
			http.NotFound(w, r)
			return
		}
		var updates []models.ObjectUpdate
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		results := make([]models.UpdateResult, len(updates))
		for i, u := range updates {
			results[i] = models.UpdateResult{
				ObjectType: u.ObjectType,
				Identifier: u.Identifier,
				Success:    true,
				Message:    "Updated successfully",
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	})
	defer srv.Close()

	value := "Oranjedak West BV"
	client := newTestClient(t, srv)
	results, err := client.UpdateObjects(context.Background(), []models.ObjectUpdate{
		{
			ObjectType: "Building",
			Identifier: "B-001",
			Attributes: map[string]*string{"Dakpartner": &value},
		},
	})
	if err != nil {
		t.Fatalf("UpdateObjects failed: %v", err)
	}
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("expected successful result, got %+v", results)
	}
}

func TestUpsertObjectsUsesPost(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/objects" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"objectType":"Building","identifier":"B-002","success":true,"isCreation":true}]`)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	results, err := client.UpsertObjects(context.Background(), []models.ObjectUpdate{
		{ObjectType: "Building", Identifier: "B-002"},
	})
	if err != nil {
		t.Fatalf("UpsertObjects failed: %v", err)
	}
	if len(results) != 1 || !results[0].IsCreation {
		t.Fatalf("expected creation result, got %+v", results)
	}
}

func TestStatusError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "object type unknown", http.StatusBadRequest)
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.Objects(context.Background(), ObjectQuery{ObjectType: "Nope"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", statusErr.StatusCode)
	}
	if statusErr.Body == "" {
		t.Error("expected body snippet in error")
	}
}
