package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-telehealth/internal/adapters/auth/jwtauth"
	"pet-telehealth/internal/router"
)

func newTestServer(t *testing.T, opts router.Options) *httptest.Server {
	t.Helper()

	h, stop := router.NewRouter(opts)
	t.Cleanup(stop)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_ConsultationFlow(t *testing.T) {
	ts := newTestServer(t, router.Options{
		AuthVerifier: nil, // modo dev: X-Debug-User-ID
		ReplyDelay:   20 * time.Millisecond,
	})

	ownerID := "owner-1"
	strangerID := "stranger-1"

	// 1) Health, sin auth
	{
		st, body := doReq(t, ts.URL, "GET", "/api/health", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 health, got %d body=%s", st, string(body))
		}
	}

	// 2) Sin sesión, las rutas protegidas cortan con 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/pets", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without session, got %d", st)
		}
	}

	// 3) Owner registra mascota; species ausente defaultea a Dog
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":  "Max",
		"breed": "Golden Retriever",
		"age":   3,
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pets/"+petID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
		}
		var pet struct {
			Species string `json:"species"`
			UserID  string `json:"userId"`
		}
		_ = json.Unmarshal(body, &pet)
		if pet.Species != "Dog" {
			t.Fatalf("expected default species Dog, got %q", pet.Species)
		}
		if pet.UserID != ownerID {
			t.Fatalf("expected owner %s, got %s", ownerID, pet.UserID)
		}
	}

	// 4) Otro usuario no puede ver la mascota (404, no 403)
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/pets/"+petID, strangerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign pet, got %d", st)
		}
	}

	// 5) Owner abre una consulta CHAT: nace ACTIVE con vet asignado
	var consultationID, vetID string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/consultations", ownerID, map[string]any{
			"petId": petID,
			"type":  "CHAT",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create consultation, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			VetID   string `json:"vetId"`
			VetName string `json:"vetName"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" || resp.Status != "ACTIVE" {
			t.Fatalf("expected ACTIVE consultation, got %s", string(body))
		}
		if resp.VetID == "" || resp.VetName == "" {
			t.Fatalf("expected assigned vet, got %s", string(body))
		}
		consultationID, vetID = resp.ID, resp.VetID
	}

	// 6) Owner manda un mensaje y la respuesta del vet llega después
	{
		st, body := doReq(t, ts.URL, "POST", "/api/consultations/"+consultationID+"/messages", ownerID, map[string]any{
			"message": "My dog is not eating",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 post message, got %d body=%s", st, string(body))
		}

		reply := waitForVetReply(t, ts.URL, consultationID, ownerID, 3*time.Second)
		if reply.SenderID != vetID {
			t.Fatalf("reply from %s, expected assigned vet %s", reply.SenderID, vetID)
		}
	}

	// 7) El detalle viene enriquecido con messageCount y lastMessage
	{
		st, body := doReq(t, ts.URL, "GET", "/api/consultations/"+consultationID, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get consultation, got %d body=%s", st, string(body))
		}
		var resp struct {
			MessageCount int `json:"messageCount"`
			LastMessage  *struct {
				IsFromVet bool `json:"isFromVet"`
			} `json:"lastMessage"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.MessageCount != 2 {
			t.Fatalf("expected 2 messages (owner + reply), got %d", resp.MessageCount)
		}
		if resp.LastMessage == nil || !resp.LastMessage.IsFromVet {
			t.Fatalf("expected vet reply as last message, body=%s", string(body))
		}
	}

	// 8) Receta emitida contra la consulta
	var prescriptionID string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/prescriptions", ownerID, map[string]any{
			"consultationId": consultationID,
			"petId":          petID,
			"medications": []map[string]any{
				{"name": "Amoxicillin", "dosage": "250mg", "frequency": "2x/day", "duration": "7 days"},
			},
			"instructions": "Give with food",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create prescription, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID    string `json:"id"`
			VetID string `json:"vetId"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.VetID != vetID {
			t.Fatalf("prescription vet %s, expected %s", resp.VetID, vetID)
		}
		prescriptionID = resp.ID
	}

	// 9) Receta ajena: 403, id inexistente: 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/prescriptions/"+prescriptionID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for foreign prescription, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/prescriptions/ghost", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown prescription, got %d", st)
		}
	}

	// 10) Entrega: idempotente, el primer flip fija deliveredAt
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/prescriptions/"+prescriptionID+"/delivery", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark delivered, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "PUT", "/api/prescriptions/"+prescriptionID+"/delivery", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on repeated delivery, got %d body=%s", st, string(body))
		}
		var resp struct {
			IsDelivered bool `json:"isDelivered"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsDelivered {
			t.Fatalf("expected isDelivered true, body=%s", string(body))
		}
	}

	// 11) Fin de la consulta; el segundo end ya no encuentra ACTIVE
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/consultations/"+consultationID+"/end", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 end consultation, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status  string  `json:"status"`
			EndTime *string `json:"endTime"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "COMPLETED" || resp.EndTime == nil {
			t.Fatalf("expected COMPLETED with endTime, body=%s", string(body))
		}

		st, _ = doReq(t, ts.URL, "PUT", "/api/consultations/"+consultationID+"/end", ownerID, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 on second end, got %d", st)
		}
	}

	// 12) La consulta completada no acepta mensajes pero sigue legible
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/consultations/"+consultationID+"/messages", ownerID, map[string]any{
			"message": "too late",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 posting to completed consultation, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/api/consultations/"+consultationID+"/messages", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing archived chat, got %d", st)
		}
		var items []json.RawMessage
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 archived messages, got %d", len(items))
		}
	}
}

func TestHTTP_VetsAndClinics(t *testing.T) {
	ts := newTestServer(t, router.Options{AuthVerifier: nil})

	userID := "user-1"

	// padrón de vets
	{
		st, body := doReq(t, ts.URL, "GET", "/api/vets/doctors", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list vets, got %d", st)
		}
		var items []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 4 {
			t.Fatalf("expected 4 vets, got %d", len(items))
		}
	}

	// nearby desde la dirección de la clínica 1: distancia 0, primera
	{
		st, body := doReq(t, ts.URL, "GET", "/api/vets/nearby?latitude=40.7128&longitude=-74.0060", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 nearby, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID       string   `json:"id"`
			Distance *float64 `json:"distance"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 4 {
			t.Fatalf("expected 4 clinics, got %d", len(items))
		}
		if items[0].ID != "1" {
			t.Fatalf("expected clinic 1 first, got %s", items[0].ID)
		}
		if items[0].Distance == nil || *items[0].Distance != 0 {
			t.Fatalf("expected distance 0 for clinic 1, got %v", items[0].Distance)
		}
	}

	// coordenadas faltantes o no numéricas: 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/vets/nearby?latitude=40.7", userID, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 missing longitude, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/vets/nearby?latitude=abc&longitude=1", userID, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 non-numeric latitude, got %d", st)
		}
	}

	// directorio de clínicas y detalle
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/vets/clinics", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list clinics, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/vets/clinics/99", userID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown clinic, got %d", st)
		}
	}
}

func TestHTTP_JWTSession(t *testing.T) {
	provider := jwtauth.NewProvider("test-secret", time.Hour)
	ts := newTestServer(t, router.Options{
		AuthVerifier: provider,
		TokenIssuer:  provider,
	})

	// register devuelve un token usable como Bearer
	var token string
	{
		st, body := doReq(t, ts.URL, "POST", "/api/auth/register", "", map[string]any{
			"name":     "Jane",
			"email":    "jane@example.com",
			"password": "secret123",
			"phone":    "+1-555-0199",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
		}
		var resp struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Token == "" {
			t.Fatalf("register: missing token body=%s", string(body))
		}
		token = resp.Token
	}

	// con el token se llega al perfil
	{
		st, body := doBearerReq(t, ts.URL, "GET", "/api/auth/me", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 me, got %d body=%s", st, string(body))
		}
		var resp struct {
			Email string `json:"email"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Email != "jane@example.com" {
			t.Fatalf("unexpected profile %s", string(body))
		}
	}

	// token basura: 401; con verifier real el header de debug se ignora
	{
		st, _ := doBearerReq(t, ts.URL, "GET", "/api/auth/me", "garbage", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for bad token, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/api/auth/me", "debug-user", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for debug header in prod mode, got %d", st)
		}
	}

	// login con credenciales malas no distingue el motivo
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"email": "jane@example.com", "password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{
			"email": "nobody@example.com", "password": "secret123",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 unknown email, got %d", st)
		}
	}
}

type vetReply struct {
	SenderID  string `json:"senderId"`
	IsFromVet bool   `json:"isFromVet"`
}

func waitForVetReply(t *testing.T, baseURL, consultationID, userID string, deadline time.Duration) vetReply {
	t.Helper()

	expire := time.Now().Add(deadline)
	for time.Now().Before(expire) {
		st, body := doReq(t, baseURL, "GET", "/api/consultations/"+consultationID+"/messages", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("list messages: %d body=%s", st, string(body))
		}

		var items []vetReply
		_ = json.Unmarshal(body, &items)
		for _, m := range items {
			if m.IsFromVet {
				return m
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("vet reply did not arrive within %v", deadline)
	return vetReply{}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()
	return do(t, baseURL, method, path, body, func(req *http.Request) {
		if debugUserID != "" {
			req.Header.Set("X-Debug-User-ID", debugUserID)
		}
	})
}

func doBearerReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()
	return do(t, baseURL, method, path, body, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
}

func do(t *testing.T, baseURL, method, path string, body any, decorate func(*http.Request)) (int, []byte) {
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
	decorate(req)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
