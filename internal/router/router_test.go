package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-planner/internal/router"
)

func TestHTTP_EndToEnd_ActivityCoordination(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	leader := debugUser{ID: "u-leader", Email: "leader@example.com"}
	guest := debugUser{ID: "u-guest", Email: "guest@example.com"}
	stranger := debugUser{ID: "u-stranger", Email: "stranger@example.com"}

	// 1) Crear actividad sin people: el creador queda como Editor
	activityID := createActivity(t, ts.URL, leader, map[string]any{
		"name":      "Cascade Traverse",
		"location":  "North Ridge",
		"startDate": "2026-10-03",
		"startTime": "07:30",
	})

	// 2) Un tercero no ve nada
	{
		st, _ := doReq(t, ts.URL, "GET", "/activities/"+activityID+"/overview", stranger, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}

	// 3) Email sin verificar => 403 aunque tenga acceso
	{
		unverified := leader
		unverified.Unverified = true
		st, _ := doReq(t, ts.URL, "GET", "/activities/"+activityID+"/overview", unverified, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for unverified email, got %d", st)
		}
	}

	// 4) Invitar al guest por email como Viewer
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", leader, map[string]any{
			"email": "guest@example.com",
			"role":  "Viewer",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 inviting guest, got %d body=%s", st, string(body))
		}
	}

	// 5) Primer request del guest: promoción lazy, ya puede leer
	{
		st, body := doReq(t, ts.URL, "GET", "/activities/"+activityID+"/overview", guest, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 overview for promoted guest, got %d body=%s", st, string(body))
		}
	}

	// 6) Viewer no puede mutar
	{
		st, _ := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/overview", guest, map[string]any{
			"location": "South Ridge",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 viewer mutation, got %d", st)
		}
	}

	// 7) Pero sí puede firmar
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/signatures", guest, map[string]any{
			"signedName": "Guest Person",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 signing as viewer, got %d body=%s", st, string(body))
		}
	}

	// 8) Riesgos: crear, escala inválida, borrar
	riskID := ""
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/risks", leader, map[string]any{
			"description": "River crossing",
			"likelihood":  "Possible",
			"consequence": "Major",
			"mitigation":  "Rope line",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 create risk, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" {
			t.Fatalf("create risk: missing id body=%s", string(body))
		}
		riskID = resp.ID
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/risks", leader, map[string]any{
			"description": "Bad scale",
			"likelihood":  "Sometimes",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid likelihood, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "DELETE", "/activities/"+activityID+"/risks/"+riskID, leader, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete risk, got %d body=%s", st, string(body))
		}
	}

	// 9) Tablas: fila de gear, kind desconocido rechazado
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/tables/gear/rows", leader, map[string]any{
			"position": 1,
			"cells":    map[string]any{"item": "rope", "qty": "2"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 put gear row, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/activities/"+activityID+"/tables/inventory/rows", leader, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown table kind, got %d", st)
		}
	}

	// 10) Un solo Activity Leader: el primero entra, el segundo rebota
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", leader, map[string]any{
			"email": "chief@example.com",
			"role":  "Activity Leader",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 assigning first leader, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", leader, map[string]any{
			"email": "other@example.com",
			"role":  "Activity Leader",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for second leader, got %d", st)
		}
	}

	// 11) No se puede degradar a la última cuenta con rol de edición
	// (el leader asignado arriba sigue pendiente: no cuenta)
	{
		st, _ := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", leader, map[string]any{
			"uid":  leader.ID,
			"role": "Viewer",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 demoting last editing account, got %d", st)
		}
	}

	// 12) Listado con rol
	{
		st, body := doReq(t, ts.URL, "GET", "/activities", leader, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list activities, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != activityID || items[0].Role != "Editor" {
			t.Fatalf("expected one activity as Editor, got %s", string(body))
		}
	}

	// 13) Revocar al guest: pierde acceso al instante
	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", leader, map[string]any{
			"uid":  guest.ID,
			"role": nil,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoking guest, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/activities/"+activityID+"/overview", guest, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for revoked guest, got %d", st)
		}
	}
}

func TestHTTP_UserCreatedHook_PromotesPendingInvites(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	owner := debugUser{ID: "u-owner", Email: "owner@example.com"}
	newbie := debugUser{ID: "u-newbie", Email: "newbie@example.com"}

	activityID := createActivity(t, ts.URL, owner, map[string]any{"name": "Coastal Walk"})

	{
		st, body := doReq(t, ts.URL, "PUT", "/activities/"+activityID+"/people", owner, map[string]any{
			"email": "newbie@example.com",
			"role":  "Assisting",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 inviting newbie, got %d body=%s", st, string(body))
		}
	}

	// El hook de registro (sin secret => solo modo dev) promueve la invitación
	{
		st, body := doReq(t, ts.URL, "POST", "/hooks/user-created", debugUser{}, map[string]any{
			"uid":         newbie.ID,
			"email":       newbie.Email,
			"displayName": "New Person",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 user-created hook, got %d body=%s", st, string(body))
		}
	}

	// Ya aparece en su listado, con el rol de la invitación
	{
		st, body := doReq(t, ts.URL, "GET", "/activities", newbie, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list for newbie, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Role != "Assisting" {
			t.Fatalf("expected promoted Assisting entry, got %s", string(body))
		}
	}

	// Y su perfil quedó provisionado por el hook
	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", newbie, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 profile, got %d body=%s", st, string(body))
		}
		var resp struct {
			DisplayName string `json:"displayName"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.DisplayName != "New Person" {
			t.Fatalf("expected provisioned display name, got %s", string(body))
		}
	}
}

func TestHTTP_Profile_PartialUpdate(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	user := debugUser{ID: "u-p1", Email: "p1@example.com"}

	{
		st, body := doReq(t, ts.URL, "PUT", "/me/profile", user, map[string]any{
			"displayName": "Pat",
			"phone":       "555-0101",
			"emergencyContact": map[string]any{
				"name":  "Sam",
				"phone": "555-0102",
			},
			"subscribeReminders": true,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 put profile, got %d body=%s", st, string(body))
		}
	}

	// update parcial: solo phone; el resto queda
	{
		st, body := doReq(t, ts.URL, "PUT", "/me/profile", user, map[string]any{
			"phone": "555-0199",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 partial update, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", user, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get profile, got %d body=%s", st, string(body))
		}
		var resp struct {
			DisplayName        string            `json:"displayName"`
			Phone              string            `json:"phone"`
			EmergencyContact   map[string]string `json:"emergencyContact"`
			SubscribeReminders bool              `json:"subscribeReminders"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.DisplayName != "Pat" || resp.Phone != "555-0199" {
			t.Fatalf("unexpected profile after partial update: %s", string(body))
		}
		if resp.EmergencyContact["name"] != "Sam" || !resp.SubscribeReminders {
			t.Fatalf("expected untouched fields preserved: %s", string(body))
		}
	}

	// tipo inválido => 400
	{
		st, _ := doReq(t, ts.URL, "PUT", "/me/profile", user, map[string]any{
			"subscribeReminders": "yes",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-boolean subscribeReminders, got %d", st)
		}
	}
}

func TestHTTP_UsersLookup_SplitsKnownAndUnknown(t *testing.T) {
	// sin proveedor de identidad (modo dev) nadie tiene cuenta
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	user := debugUser{ID: "u-1", Email: "u1@example.com"}

	st, body := doReq(t, ts.URL, "POST", "/users/lookup", user, map[string]any{
		"emails": []string{"a@example.com", "b@example.com"},
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 lookup, got %d body=%s", st, string(body))
	}

	var items []struct {
		UserExists bool   `json:"userExists"`
		Email      string `json:"email"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 lookup entries, got %s", string(body))
	}
	for _, it := range items {
		if it.UserExists {
			t.Fatalf("expected no registered users in dev mode, got %s", string(body))
		}
	}
}

// -------------------------
// Helpers
// -------------------------

type debugUser struct {
	ID         string
	Email      string
	Unverified bool
}

func createActivity(t *testing.T, baseURL string, u debugUser, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/activities", u, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create activity, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create activity: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path string, u debugUser, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u.ID != "" {
		req.Header.Set("X-Debug-User-ID", u.ID)
		req.Header.Set("X-Debug-Email", u.Email)
		if u.Unverified {
			req.Header.Set("X-Debug-Unverified", "1")
		}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
