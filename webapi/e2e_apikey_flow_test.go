package webapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/amirasaad/walletd/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

type E2EAPIKeyFlowTestSuite struct {
	testutils.E2ETestSuite
}

func (s *E2EAPIKeyFlowTestSuite) createKey(token, name string, permissions []string, expiry string) (string, string) {
	perms, err := json.Marshal(permissions)
	s.Require().NoError(err)
	body := fmt.Sprintf(`{"name":%q,"permissions":%s,"expiry":%q}`, name, perms, expiry)
	resp := s.MakeRequest("POST", "/api-keys", body, token)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var keyResp map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&keyResp))
	data := keyResp["data"].(map[string]any)
	rawKey := data["api_key"].(string)
	s.Require().NotEmpty(rawKey)
	return data["id"].(string), rawKey
}

func (s *E2EAPIKeyFlowTestSuite) TestAPIKeyLifecycleE2E() {
	user := s.CreateTestUser()
	token := s.LoginUser(user)

	keyID, rawKey := s.createKey(token, "reporting", []string{"read"}, "1D")

	// Read-scoped key can fetch the balance but not move funds.
	resp := s.MakeAPIKeyRequest("GET", "/wallet/balance", "", rawKey)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.MakeAPIKeyRequest("POST", "/wallet/transfer", `{"wallet_number":"4123456789012","amount":100}`, rawKey)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	// Key management stays JWT-only.
	resp = s.MakeAPIKeyRequest("POST", "/api-keys", `{"name":"sneaky","permissions":["read"],"expiry":"1D"}`, rawKey)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest("DELETE", "/api-keys/"+keyID, "", token)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.MakeAPIKeyRequest("GET", "/wallet/balance", "", rawKey)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *E2EAPIKeyFlowTestSuite) TestAPIKeyValidationE2E() {
	user := s.CreateTestUser()
	token := s.LoginUser(user)

	resp := s.MakeRequest("POST", "/api-keys", `{"name":"bad","permissions":["admin"],"expiry":"1D"}`, token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.MakeRequest("POST", "/api-keys", `{"name":"bad","permissions":["read"],"expiry":"2W"}`, token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *E2EAPIKeyFlowTestSuite) TestAPIKeyCapE2E() {
	user := s.CreateTestUser()
	token := s.LoginUser(user)

	for i := range 5 {
		s.createKey(token, fmt.Sprintf("key-%d", i), []string{"read"}, "1M")
	}

	body := `{"name":"one-too-many","permissions":["read"],"expiry":"1M"}`
	resp := s.MakeRequest("POST", "/api-keys", body, token)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *E2EAPIKeyFlowTestSuite) TestRolloverRequiresExpiredKeyE2E() {
	user := s.CreateTestUser()
	token := s.LoginUser(user)

	keyID, _ := s.createKey(token, "live", []string{"read"}, "1Y")

	resp := s.MakeRequest("POST", "/api-keys/"+keyID+"/rollover", `{"expiry":"1M"}`, token)
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestE2EAPIKeyFlowTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2EAPIKeyFlowTestSuite))
}
