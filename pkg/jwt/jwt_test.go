package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/SalesERP-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "sales-erp-test"
)

var testSubject = pkgjwt.Subject{
	UserID:    "00000000-0000-0000-0000-000000000001",
	CompanyID: "00000000-0000-0000-0000-000000000002",
	Email:     "jane@acme.io",
	Role:      "manager",
}

func TestJWT_GenerateAndParse_ConEmailYRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testSubject.UserID, claims.UserID)
	assert.Equal(t, testSubject.CompanyID, claims.CompanyID)
	assert.Equal(t, "jane@acme.io", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestJWT_SinCompany_RetornaError(t *testing.T) {
	sub := testSubject
	sub.CompanyID = ""
	tok, err := pkgjwt.Generate(testSecret, sub, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "un token sin company_id no sirve para acotar el tenant")
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testSubject, testIssuer, 60)
	assert.Error(t, err)
}
