package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bagservice "dewey/contexts/player-experience/bag-service"
	bagmemory "dewey/contexts/player-experience/bag-service/adapters/memory"
	bagentities "dewey/contexts/player-experience/bag-service/domain/entities"
	bagports "dewey/contexts/player-experience/bag-service/ports"
	disccatalog "dewey/contexts/reference-data/disc-catalog"
)

type catalogBridge struct {
	catalog disccatalog.Module
}

func (b catalogBridge) GetDisc(ctx context.Context, discID string) (bagentities.DiscSnapshot, bool, error) {
	disc, found, err := b.catalog.Discs.GetDisc(ctx, discID)
	if err != nil || !found {
		return bagentities.DiscSnapshot{}, found, err
	}
	return bagentities.DiscSnapshot{
		ID:        disc.ID,
		Name:      disc.Name,
		Type:      string(disc.Type),
		Speed:     disc.Speed,
		Glide:     disc.Glide,
		Turn:      disc.Turn,
		Fade:      disc.Fade,
		Stability: string(disc.Stability),
	}, true, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	catalogModule := disccatalog.NewInMemoryModule(nil)
	bagModule := bagservice.NewInMemoryModule(catalogBridge{catalog: catalogModule}, nil)
	if err := bagModule.Projector.Start(context.Background()); err != nil {
		t.Fatalf("start projector: %v", err)
	}

	server := httptest.NewServer(New(bagModule, catalogModule, nil, "").Handler())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestRegisterAndViewBagOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/register", `{"username":"kira","email":"kira@example.com"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var registered struct {
		UserID  string `json:"user_id"`
		EventID string `json:"event_id"`
	}
	decodeBody(t, resp, &registered)
	if registered.UserID == "" || registered.EventID == "" {
		t.Fatalf("expected minted ids, got %+v", registered)
	}

	viewResp, err := http.Get(server.URL + "/bag/view/" + registered.UserID)
	if err != nil {
		t.Fatalf("GET view: %v", err)
	}
	if viewResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", viewResp.StatusCode)
	}
	var bag struct {
		UserID string `json:"user_id"`
		Discs  []any  `json:"discs"`
	}
	decodeBody(t, viewResp, &bag)
	if bag.UserID != registered.UserID || len(bag.Discs) != 0 {
		t.Fatalf("expected empty projected bag, got %+v", bag)
	}
}

func TestRegisterRejectsMalformedJSON(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/register", `{"username":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	if body.Code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %q", body.Code)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/register", `{"username":"kira","email":"nope"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	if body.Code != "invalid_registration" {
		t.Fatalf("expected invalid_registration, got %q", body.Code)
	}
}

func TestAddDiscUnknownCatalogEntryIs404(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/bag/add", `{"user_id":"user-1","disc_id":"999"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	if body.Code != "disc_not_found" {
		t.Fatalf("expected disc_not_found, got %q", body.Code)
	}
}

func TestAddAndRemoveDiscOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/bag/add", `{"user_id":"user-1","disc_id":"2"}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 on add, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/bag/remove", strings.NewReader(`{"user_id":"user-1","disc_id":"2"}`))
	if err != nil {
		t.Fatalf("build remove request: %v", err)
	}
	removeResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE remove: %v", err)
	}
	if removeResp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 on remove, got %d", removeResp.StatusCode)
	}
	removeResp.Body.Close()

	viewResp, err := http.Get(server.URL + "/bag/view/user-1")
	if err != nil {
		t.Fatalf("GET view: %v", err)
	}
	var bag struct {
		Discs []any `json:"discs"`
	}
	decodeBody(t, viewResp, &bag)
	if len(bag.Discs) != 0 {
		t.Fatalf("expected empty bag after add then remove, got %+v", bag.Discs)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	server := newTestServer(t)

	discsResp, err := http.Get(server.URL + "/discs")
	if err != nil {
		t.Fatalf("GET discs: %v", err)
	}
	if discsResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", discsResp.StatusCode)
	}
	var discs struct {
		Count int `json:"count"`
	}
	decodeBody(t, discsResp, &discs)
	if discs.Count != 3 {
		t.Fatalf("expected 3 catalog discs, got %d", discs.Count)
	}

	discResp, err := http.Get(server.URL + "/discs/1")
	if err != nil {
		t.Fatalf("GET disc: %v", err)
	}
	if discResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", discResp.StatusCode)
	}
	var disc struct {
		Name          string `json:"name"`
		FlightNumbers string `json:"flight_numbers"`
	}
	decodeBody(t, discResp, &disc)
	if disc.Name != "Destroyer" || disc.FlightNumbers != "12/5/-1/3" {
		t.Fatalf("unexpected disc %+v", disc)
	}

	missingResp, err := http.Get(server.URL + "/discs/999")
	if err != nil {
		t.Fatalf("GET missing disc: %v", err)
	}
	if missingResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missingResp.StatusCode)
	}
	missingResp.Body.Close()

	coursesResp, err := http.Get(server.URL + "/courses")
	if err != nil {
		t.Fatalf("GET courses: %v", err)
	}
	var courses struct {
		Count int `json:"count"`
	}
	decodeBody(t, coursesResp, &courses)
	if courses.Count != 3 {
		t.Fatalf("expected 3 courses, got %d", courses.Count)
	}
}

type downPublisher struct{}

func (downPublisher) Publish(context.Context, string, bagports.EventEnvelope) error {
	return errors.New("broker unreachable")
}

func TestCommandsFailClosedWhenBrokerDown(t *testing.T) {
	catalogModule := disccatalog.NewInMemoryModule(nil)
	store := bagmemory.NewStore()
	bagModule := bagservice.NewModule(bagservice.Dependencies{
		Publisher:      downPublisher{},
		Reads:          store,
		Catalog:        catalogBridge{catalog: catalogModule},
		Clock:          store,
		IDGenerator:    store,
		PublishTimeout: time.Second,
	})

	server := httptest.NewServer(New(bagModule, catalogModule, nil, "").Handler())
	defer server.Close()

	resp := postJSON(t, server.URL+"/register", `{"username":"kira","email":"kira@example.com"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if body.Code != "write_unavailable" {
		t.Fatalf("expected write_unavailable, got %q", body.Code)
	}

	// Reads stay up through a command-path outage.
	viewResp, err := http.Get(server.URL + "/bag/view/user-1")
	if err != nil {
		t.Fatalf("GET view: %v", err)
	}
	if viewResp.StatusCode != http.StatusOK {
		t.Fatalf("expected reads to keep working, got %d", viewResp.StatusCode)
	}
	viewResp.Body.Close()
}
