package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/segvenc-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestParse_TokenValido(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "auth-1", "ana@empresa.com", "authenticated", 5)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(secret, "authenticated", tok)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", id.AuthUserID)
	assert.Equal(t, "ana@empresa.com", id.Email)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(secret, "auth-1", "a@b.com", "authenticated", -1)
	require.NoError(t, err)
	otherAud, err := pkgjwt.Generate(secret, "auth-1", "a@b.com", "anon", 5)
	require.NoError(t, err)
	good, err := pkgjwt.Generate(secret, "auth-1", "a@b.com", "authenticated", 5)
	require.NoError(t, err)

	cases := map[string]struct{ secret, token string }{
		"expirado":         {secret, expired},
		"otra audiencia":   {secret, otherAud},
		"firma incorrecta": {"otro-secreto", good},
		"basura":           {secret, "no.es.jwt"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := pkgjwt.Parse(tc.secret, "authenticated", tc.token)
			assert.Error(t, err)
		})
	}

	_, err = pkgjwt.Parse("", "", good)
	assert.Error(t, err, "secret vacío")
}
