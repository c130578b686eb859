package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-services-marketplace/internal/config"
	"pet-services-marketplace/internal/platform/logger"
	"pet-services-marketplace/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	// Sin credenciales de backend => demo mode con el mock in-memory.
	cfg := &config.Config{
		Port:           "0",
		Environment:    "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		StorageBucket:  "pet-media",
	}
	log := logger.New(logger.Options{Level: logger.Error, Out: io.Discard})

	ts := httptest.NewServer(router.NewRouter(router.Options{Config: cfg, Log: log}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_MarketplaceFlow(t *testing.T) {
	ts := newTestServer(t)

	// 1) Ambas partes se registran; el perfil se crea explícito en el signup
	ownerTok := signUp(t, ts.URL, "dueña@example.com", "secret123", "Ana García", "owner")
	giverTok := signUp(t, ts.URL, "paseador@example.com", "secret123", "Beto Paz", "giver")

	// 2) Sin token no hay acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// 3) La dueña crea su mascota
	petID := createJSON(t, ts.URL, "/pets", ownerTok, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"breed":   "mestizo",
		"safe_zone": map[string]any{
			"lat": -34.6037, "lng": -58.3816, "radius_m": 500,
		},
	})

	// 4) El giver no puede crear mascotas
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets", giverTok, map[string]any{
			"name": "Firulais", "species": "dog",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for giver pet create, got %d", st)
		}
	}

	// 5) La dueña publica un pedido de paseo
	reqID := createJSON(t, ts.URL, "/pets/"+petID+"/requests", ownerTok, map[string]any{
		"type":             "walk",
		"start_at":         time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration_minutes": 45,
		"location":         "Parque Centenario",
	})

	// 6) El paseador lo ve en el browse
	{
		st, body := doReq(t, ts.URL, "GET", "/requests?type=walk", giverTok, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 browse, got %d body=%s", st, body)
		}
		if !strings.Contains(string(body), reqID) {
			t.Fatalf("open request missing from browse: %s", body)
		}
	}

	// 7) El paseador oferta
	offerID := createJSON(t, ts.URL, "/requests/"+reqID+"/offers", giverTok, map[string]any{
		"message":     "Paseo por el parque",
		"price_cents": 1500,
	})

	// 8) La dueña acepta: el pedido queda matched y nace el booking
	var bookingID string
	{
		st, body := doReq(t, ts.URL, "POST", "/offers/"+offerID+"/accept", ownerTok, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept, got %d body=%s", st, body)
		}
		var resp struct {
			BookingID string `json:"booking_id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.BookingID == "" {
			t.Fatalf("accept: missing booking_id body=%s", body)
		}
		bookingID = resp.BookingID
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/requests/"+reqID, ownerTok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"status":"matched"`) {
			t.Fatalf("expected matched request, got %d body=%s", st, body)
		}
	}

	// 9) Ofertar sobre un pedido ya matcheado falla
	{
		st, _ := doReq(t, ts.URL, "POST", "/requests/"+reqID+"/offers", giverTok, map[string]any{
			"price_cents": 900,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 offering on matched request, got %d", st)
		}
	}

	// 10) El paseador arranca y cierra el servicio
	{
		st, body := doReq(t, ts.URL, "POST", "/bookings/"+bookingID+"/start", giverTok, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 start, got %d body=%s", st, body)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/bookings/"+bookingID+"/complete", giverTok, map[string]any{
			"photo_urls": []string{"memory://pet-media/walk1.jpg"},
		})
		if st != http.StatusOK || !strings.Contains(string(body), `"status":"completed"`) {
			t.Fatalf("expected completed booking, got %d body=%s", st, body)
		}
	}

	// 11) La dueña califica una sola vez
	{
		st, body := doReq(t, ts.URL, "POST", "/bookings/"+bookingID+"/rate", ownerTok, map[string]any{
			"rating": 5, "tip_cents": 500,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 rate, got %d body=%s", st, body)
		}
		st, _ = doReq(t, ts.URL, "POST", "/bookings/"+bookingID+"/rate", ownerTok, map[string]any{
			"rating": 4,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on second rate, got %d", st)
		}
	}

	// 12) Ambos lo ven en su historial
	for _, tok := range []string{ownerTok, giverTok} {
		st, body := doReq(t, ts.URL, "GET", "/me/bookings", tok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), bookingID) {
			t.Fatalf("booking missing from history, got %d body=%s", st, body)
		}
	}
}

func TestHTTP_DemoMode_ProfileUpdateFails(t *testing.T) {
	ts := newTestServer(t)

	tok := signUp(t, ts.URL, "ana@example.com", "secret123", "Ana", "owner")

	// leer perfil funciona (la tabla users del mock resuelve por id)
	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", tok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), "ana@example.com") {
			t.Fatalf("expected 200 profile, got %d body=%s", st, body)
		}
	}

	// escribirlo no: el mock no soporta updates de tabla
	{
		st, body := doReq(t, ts.URL, "PATCH", "/me/profile", tok, map[string]any{
			"full_name": "Otro Nombre",
		})
		if st < 400 {
			t.Fatalf("expected profile update failure in demo mode, got %d", st)
		}
		if !strings.Contains(string(body), "mocked DB") {
			t.Fatalf("expected mocked DB error surfaced untranslated, got %s", body)
		}
	}
}

func TestHTTP_SignOut_RevokesToken(t *testing.T) {
	ts := newTestServer(t)

	tok := signUp(t, ts.URL, "ana@example.com", "secret123", "Ana", "owner")

	{
		st, _ := doReq(t, ts.URL, "GET", "/auth/session", tok, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 session, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/signout", tok, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 signout, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/auth/session", tok, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after signout, got %d", st)
		}
	}
}

func TestHTTP_SignIn_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)

	signUp(t, ts.URL, "ana@example.com", "secret123", "Ana", "owner")

	st, body := doReq(t, ts.URL, "POST", "/auth/signin", "", map[string]any{
		"email": "ana@example.com", "password": "wrong",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, body)
	}
	if !strings.Contains(string(body), "mocked DB: invalid credentials") {
		t.Fatalf("expected mock error message, got %s", body)
	}
}

func TestHTTP_SignUpAndSignIn_EmbedProfile(t *testing.T) {
	ts := newTestServer(t)

	// El signup devuelve la sesión con el perfil recién creado adentro.
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/signup", "", map[string]any{
			"email":     "ana@example.com",
			"password":  "secret123",
			"full_name": "Ana García",
			"role":      "owner",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 signup, got %d body=%s", st, body)
		}
		var resp struct {
			Profile *struct {
				FullName string `json:"full_name"`
				Role     string `json:"role"`
			} `json:"profile"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Profile == nil {
			t.Fatalf("signup: missing profile body=%s", body)
		}
		if resp.Profile.FullName != "Ana García" || resp.Profile.Role != "owner" {
			t.Fatalf("signup: unexpected profile %+v", resp.Profile)
		}
	}

	// El signin también.
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/signin", "", map[string]any{
			"email": "ana@example.com", "password": "secret123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 signin, got %d body=%s", st, body)
		}
		if !strings.Contains(string(body), `"full_name":"Ana García"`) {
			t.Fatalf("signin: profile missing from response: %s", body)
		}
	}
}

func TestHTTP_AvatarUpload(t *testing.T) {
	ts := newTestServer(t)

	tok := signUp(t, ts.URL, "ana@example.com", "secret123", "Ana", "owner")
	petID := createJSON(t, ts.URL, "/pets", tok, map[string]any{
		"name": "Milo", "species": "cat",
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "milo.jpg")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("fake-jpeg-bytes"))
	_ = mw.Close()

	req, err := http.NewRequest("POST", ts.URL+"/pets/"+petID+"/avatar", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 upload, got %d body=%s", res.StatusCode, body)
	}
	var resp struct {
		AvatarURL string `json:"avatar_url"`
	}
	_ = json.Unmarshal(body, &resp)
	if !strings.HasPrefix(resp.AvatarURL, "memory://pet-media/pets/"+petID+"/") {
		t.Fatalf("unexpected avatar url: %q", resp.AvatarURL)
	}
}

func TestHTTP_VerificationFlow(t *testing.T) {
	ts := newTestServer(t)

	giverTok := signUp(t, ts.URL, "paseador@example.com", "secret123", "Beto", "giver")
	adminTok := signUp(t, ts.URL, "admin@example.com", "secret123", "Admin", "owner")

	verifID := createJSON(t, ts.URL, "/verifications", giverTok, map[string]any{
		"id_document_url": "memory://pet-media/docs/dni.jpg",
		"selfie_url":      "memory://pet-media/docs/selfie.jpg",
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/me/verification", giverTok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"status":"pending"`) {
			t.Fatalf("expected pending verification, got %d body=%s", st, body)
		}
	}

	// auto-revisión prohibida
	{
		st, _ := doReq(t, ts.URL, "POST", "/verifications/"+verifID+"/approve", giverTok, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 self review, got %d", st)
		}
	}

	// en demo mode el reject funciona (no toca la tabla users)
	{
		st, body := doReq(t, ts.URL, "POST", "/verifications/"+verifID+"/reject", adminTok, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"status":"rejected"`) {
			t.Fatalf("expected rejected, got %d body=%s", st, body)
		}
	}
}

// -------------------------
// Helpers
// -------------------------

func signUp(t *testing.T, baseURL, email, password, fullName, role string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/signup", "", map[string]any{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"role":      role,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, body)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.AccessToken == "" {
		t.Fatalf("signup: missing access_token body=%s", body)
	}
	return resp.AccessToken
}

func createJSON(t *testing.T, baseURL, path, token string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, body)
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, b
}
