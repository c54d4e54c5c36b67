package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	app  *fiber.App
	t    *testing.T
	auth string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RawMaterialUC: usecase.NewRawMaterialUseCase(store.RawMaterials()),
		ProductUC:     usecase.NewProductUseCase(store.Products(), store.RawMaterials()),
		SuggestionUC:  planning.NewSuggestionUseCase(store, pdf.NewPlanPDFGenerator("Fábrica de prueba"), logger.Nop()),
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		UserUC:    usecase.NewUserUseCase(store.Users()),
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, t: t, auth: tokenForRole(t, "planificador")}
}

func (f *apiFixture) as(role string) *apiFixture {
	return &apiFixture{app: f.app, t: f.t, auth: tokenForRole(f.t, role)}
}

// do envía la petición y, si out no es nil, decodifica la respuesta JSON.
func (f *apiFixture) do(method, path string, body interface{}, out interface{}) int {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if f.auth != "" {
		req.Header.Set("Authorization", f.auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(f.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *apiFixture) createMaterial(name, stock string) dto.RawMaterialResponse {
	f.t.Helper()
	var out dto.RawMaterialResponse
	status := f.do(http.MethodPost, "/api/raw-materials", fiber.Map{"name": name, "stock_quantity": stock}, &out)
	require.Equal(f.t, http.StatusCreated, status)
	return out
}

func (f *apiFixture) createProduct(name, value string) dto.ProductResponse {
	f.t.Helper()
	var out dto.ProductResponse
	status := f.do(http.MethodPost, "/api/products", fiber.Map{"name": name, "value": value}, &out)
	require.Equal(f.t, http.StatusCreated, status)
	return out
}

func (f *apiFixture) addBom(productID, materialID, qty string) {
	f.t.Helper()
	status := f.do(http.MethodPost, "/api/products/"+productID+"/raw-materials",
		fiber.Map{"raw_material_id": materialID, "required_quantity": qty}, nil)
	require.Equal(f.t, http.StatusCreated, status)
}

func TestRouter_RawMaterialCRUD(t *testing.T) {
	api := newAPI(t)
	m := api.createMaterial("Madera", "10.5")
	assert.True(t, decimal.RequireFromString("10.5").Equal(m.StockQuantity))

	var got dto.RawMaterialResponse
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/raw-materials/"+m.ID, nil, &got))
	assert.Equal(t, "Madera", got.Name)

	var updated dto.RawMaterialResponse
	status := api.do(http.MethodPut, "/api/raw-materials/"+m.ID, fiber.Map{"stock_quantity": "3"}, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Madera", updated.Name)
	assert.True(t, decimal.NewFromInt(3).Equal(updated.StockQuantity))

	var list dto.RawMaterialListResponse
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/raw-materials?limit=5", nil, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 5, list.Page.Limit)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/raw-materials/"+m.ID, nil, nil))
	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/raw-materials/"+m.ID, nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestRouter_Errores(t *testing.T) {
	api := newAPI(t)
	m := api.createMaterial("Clavo", "100")
	p := api.createProduct("Mesa", "100")
	api.addBom(p.ID, m.ID, "4")

	tests := map[string]struct {
		method, path string
		body         interface{}
		status       int
		code         string
	}{
		"stock negativo":           {http.MethodPost, "/api/raw-materials", fiber.Map{"name": "X", "stock_quantity": "-1"}, http.StatusBadRequest, "VALIDATION"},
		"valor con tres decimales": {http.MethodPost, "/api/products", fiber.Map{"name": "X", "value": "1.005"}, http.StatusBadRequest, "VALIDATION"},
		"producto inexistente":     {http.MethodGet, "/api/products/00000000-0000-0000-0000-00000000ffff", nil, http.StatusNotFound, "NOT_FOUND"},
		"id no uuid":               {http.MethodGet, "/api/products/abc", nil, http.StatusNotFound, "NOT_FOUND"},
		"bom duplicado":            {http.MethodPost, "/api/products/" + p.ID + "/raw-materials", fiber.Map{"raw_material_id": m.ID, "required_quantity": "1"}, http.StatusConflict, "DUPLICATE"},
		"bom cantidad cero":        {http.MethodPut, "/api/products/" + p.ID + "/raw-materials/" + m.ID, fiber.Map{"required_quantity": "0"}, http.StatusBadRequest, "VALIDATION"},
		"materia prima en uso":     {http.MethodDelete, "/api/raw-materials/" + m.ID, nil, http.StatusConflict, "CONFLICT"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var e dto.ErrorResponse
			assert.Equal(t, tc.status, api.do(tc.method, tc.path, tc.body, &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/raw-materials", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", api.auth)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "INVALID_BODY", e.Code)
}

func TestRouter_Permisos(t *testing.T) {
	api := newAPI(t)
	consulta := api.as("consulta")

	var e dto.ErrorResponse
	status := consulta.do(http.MethodPost, "/api/raw-materials", fiber.Map{"name": "X", "stock_quantity": "1"}, &e)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", e.Code)

	var list dto.RawMaterialListResponse
	assert.Equal(t, http.StatusOK, consulta.do(http.MethodGet, "/api/raw-materials", nil, &list))
	assert.Equal(t, http.StatusOK, consulta.do(http.MethodGet, "/api/production-planning/suggestions", nil, nil))

	anon := &apiFixture{app: api.app, t: t}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/products", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodGet, "/api/production-planning/suggestions", nil, nil))
}

func TestRouter_RegistroYLogin(t *testing.T) {
	api := newAPI(t)
	anon := &apiFixture{app: api.app, t: t}

	var user dto.UserResponse
	status := anon.do(http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "Ana@Example.com", "password": "secreto123", "name": "Ana"}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "consulta", user.Role)

	var e dto.ErrorResponse
	status = anon.do(http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "ana@example.com", "password": "secreto123"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", e.Code)

	status = anon.do(http.MethodPost, "/api/auth/login", fiber.Map{"email": "ana@example.com", "password": "mal"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", e.Code)

	var login dto.LoginResponse
	status = anon.do(http.MethodPost, "/api/auth/login", fiber.Map{"email": "ana@example.com", "password": "secreto123"}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)

	// el token emitido sirve para leer pero no para escribir
	withToken := &apiFixture{app: api.app, t: t, auth: "Bearer " + login.Token}
	assert.Equal(t, http.StatusOK, withToken.do(http.MethodGet, "/api/products", nil, nil))
	assert.Equal(t, http.StatusForbidden, withToken.do(http.MethodPost, "/api/products", fiber.Map{"name": "X", "value": "1"}, nil))
}

func TestRouter_Sugerencias(t *testing.T) {
	api := newAPI(t)
	madera := api.createMaterial("Madera", "10")
	clavo := api.createMaterial("Clavo", "100")
	mesa := api.createProduct("Mesa", "100")
	silla := api.createProduct("Silla", "40")
	api.addBom(mesa.ID, madera.ID, "4")
	api.addBom(mesa.ID, clavo.ID, "10")
	api.addBom(silla.ID, madera.ID, "1")

	var out dto.ProductionSuggestionResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/production-planning/suggestions", nil, &out))
	require.Len(t, out.Suggestions, 2)
	assert.Equal(t, "Mesa", out.Suggestions[0].ProductName)
	assert.Equal(t, int64(2), out.Suggestions[0].ProducibleQuantity)
	assert.Equal(t, "Silla", out.Suggestions[1].ProductName)
	assert.Equal(t, int64(2), out.Suggestions[1].ProducibleQuantity)
	assert.True(t, decimal.NewFromInt(280).Equal(out.GrandTotalValue))

	// el cálculo no descuenta stock
	var m dto.RawMaterialResponse
	api.do(http.MethodGet, "/api/raw-materials/"+madera.ID, nil, &m)
	assert.True(t, decimal.NewFromInt(10).Equal(m.StockQuantity))
}

func TestRouter_SugerenciasVacio(t *testing.T) {
	api := newAPI(t)
	var out dto.ProductionSuggestionResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/production-planning/suggestions", nil, &out))
	assert.NotNil(t, out.Suggestions)
	assert.Empty(t, out.Suggestions)
	assert.True(t, out.GrandTotalValue.IsZero())
}

func TestRouter_SugerenciasPDF(t *testing.T) {
	api := newAPI(t)
	m := api.createMaterial("Madera", "8")
	p := api.createProduct("Mesa", "100")
	api.addBom(p.ID, m.ID, "4")

	req := httptest.NewRequest(http.MethodGet, "/api/production-planning/suggestions/pdf", nil)
	req.Header.Set("Authorization", api.auth)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="plan_produccion_`)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_AdministracionUsuarios(t *testing.T) {
	api := newAPI(t)
	anon := &apiFixture{app: api.app, t: t}

	var user dto.UserResponse
	require.Equal(t, http.StatusCreated, anon.do(http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "luis@example.com", "password": "secreto123"}, &user))

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/api/auth/login",
		fiber.Map{"email": "luis@example.com", "password": "secreto123"}, &login))
	luis := &apiFixture{app: api.app, t: t, auth: "Bearer " + login.Token}

	var me dto.UserResponse
	require.Equal(t, http.StatusOK, luis.do(http.MethodGet, "/api/users/me", nil, &me))
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, http.StatusForbidden, luis.do(http.MethodGet, "/api/users", nil, nil))

	admin := api.as("admin")
	var list dto.UserListResponse
	require.Equal(t, http.StatusOK, admin.do(http.MethodGet, "/api/users", nil, &list))
	assert.Len(t, list.Items, 1)

	var promoted dto.UserResponse
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, "/api/users/"+user.ID,
		fiber.Map{"role": "planificador"}, &promoted))
	assert.Equal(t, "planificador", promoted.Role)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodPatch, "/api/users/"+user.ID, fiber.Map{"role": "jefe"}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	// el rol nuevo llega con el siguiente login
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/api/auth/login",
		fiber.Map{"email": "luis@example.com", "password": "secreto123"}, &login))
	assert.Equal(t, "planificador", login.User.Role)
	luis = &apiFixture{app: api.app, t: t, auth: "Bearer " + login.Token}
	assert.Equal(t, http.StatusCreated, luis.do(http.MethodPost, "/api/products", fiber.Map{"name": "Mesa", "value": "10"}, nil))

	// un usuario desactivado ya no puede iniciar sesión
	require.Equal(t, http.StatusOK, admin.do(http.MethodPatch, "/api/users/"+user.ID, fiber.Map{"status": "inactive"}, nil))
	assert.Equal(t, http.StatusForbidden, anon.do(http.MethodPost, "/api/auth/login",
		fiber.Map{"email": "luis@example.com", "password": "secreto123"}, &e))
}
