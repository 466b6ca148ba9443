package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/register/emprendedor", entrepreneurPayload("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	second := entrepreneurPayload("a@x.com")
	second["numero_documento"] = "999888777"
	rec = env.do(t, http.MethodPost, "/api/register/emprendedor", second)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "email", resp.Field)
}

func TestRegister_DuplicateDocument(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/register/emprendedor", entrepreneurPayload("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/register/emprendedor", entrepreneurPayload("b@x.com"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "numero_documento", resp.Field)
	// The failed registration must not leave a user behind.
	assert.Nil(t, env.users.byEmail["b@x.com"])
}

func TestRegister_MissingFieldNamesIt(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	payload := entrepreneurPayload("a@x.com")
	delete(payload, "titulo_proyecto")

	rec := env.do(t, http.MethodPost, "/api/register/emprendedor", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "titulo_proyecto", resp.Field)
	assert.Empty(t, env.users.byEmail)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	for _, weak := range []string{"corta1A", "sinmayuscula1", "SINMINUSCULA1", "SinNumeros"} {
		payload := entrepreneurPayload("a@x.com")
		payload["password"] = weak

		rec := env.do(t, http.MethodPost, "/api/register/emprendedor", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code, weak)

		var resp struct {
			Field string `json:"field"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "password", resp.Field, weak)
	}
	assert.Empty(t, env.users.byEmail)
}

func TestRegister_InstitutionRoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/register/institucion", map[string]interface{}{
		"email":                "sena@x.com",
		"password":             "Secreto123",
		"nombre_completo":      "SENA Regional Huila",
		"nit":                  "899999034-1",
		"tipo_institucion":     "educativa",
		"municipio":            "Neiva",
		"descripcion":          "Formación para el trabajo.",
		"area_especializacion": "Tecnología",
		"participacion_activa": []string{"ferias", "ruedas de negocio"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User struct {
			Role string `json:"rol"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "institucion", resp.User.Role)
}
