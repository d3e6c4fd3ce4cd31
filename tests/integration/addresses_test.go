//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trajefino/api/internal/testutil"
)

// newAddressOwner creates a throwaway user to attach addresses to.
func newAddressOwner(t *testing.T, client *testutil.Client) int64 {
	t.Helper()
	id := createTestUser(t, client, uniqueName("owner"))
	t.Cleanup(func() { deleteUser(t, client, id) })
	return id
}

func TestCreateAddress_CountryDefaults(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)
	userID := newAddressOwner(t, client)

	resp, err := client.POST("/api/v1/address", map[string]interface{}{
		"street":  "Avenida Paulista",
		"number":  "1578",
		"city":    "Sao Paulo",
		"state":   "SP",
		"zipCode": "01310-200",
		"userId":  userID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var address struct {
		ID      int64  `json:"id"`
		Country string `json:"country"`
	}
	testutil.DecodeJSON(t, resp, &address)
	assert.Equal(t, "Brasil", address.Country)
	assert.NotZero(t, address.ID)
}

func TestCreateAddress_UnknownUser(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)

	resp, err := client.WithoutValidation().POST("/api/v1/address", map[string]interface{}{
		"street":  "Rua Sem Dono",
		"city":    "Sao Paulo",
		"state":   "SP",
		"zipCode": "01000-000",
		"userId":  999999,
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateAddress_StateValidation(t *testing.T) {
	client := newTestClientWithoutValidation()
	client.LoginAs(t, "admin", "admin123")
	userID := createTestUser(t, client, uniqueName("stateval"))
	t.Cleanup(func() { deleteUser(t, client, userID) })

	resp, err := client.POST("/api/v1/address", map[string]interface{}{
		"street":  "Rua das Flores",
		"city":    "Sao Paulo",
		"state":   "SAO",
		"zipCode": "01000-000",
		"userId":  userID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var fields map[string]string
	testutil.DecodeJSON(t, resp, &fields)
	assert.Contains(t, fields, "state")
}

func TestDefaultAddress_Exclusive(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)
	userID := newAddressOwner(t, client)

	first := createTestAddress(t, client, userID, asDefault(), withStreet("Rua Um"))
	second := createTestAddress(t, client, userID, asDefault(), withStreet("Rua Dois"))

	// Creating a second default demotes the first
	resp, err := client.GET(fmt.Sprintf("/api/v1/address/user/%d", userID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []struct {
		ID        int64 `json:"id"`
		IsDefault bool  `json:"isDefault"`
	}
	testutil.DecodeJSON(t, resp, &list)
	require.Len(t, list, 2)

	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	// set-default moves the flag back
	resp, err = client.PATCH(fmt.Sprintf("/api/v1/address/%d/set-default", first), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var changed struct {
		ID        int64 `json:"id"`
		IsDefault bool  `json:"isDefault"`
	}
	testutil.DecodeJSON(t, resp, &changed)
	assert.True(t, changed.IsDefault)

	resp, err = client.GET(fmt.Sprintf("/api/v1/address/user/%d/default", userID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var def struct {
		ID int64 `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &def)
	assert.Equal(t, first, def.ID)
}

func TestGetDefaultAddress_NoneSet(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)
	userID := newAddressOwner(t, client)

	createTestAddress(t, client, userID)

	resp, err := client.WithoutValidation().GET(fmt.Sprintf("/api/v1/address/user/%d/default", userID))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatchAddress_OmittedFieldsKeepValues(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)
	userID := newAddressOwner(t, client)

	id := createTestAddress(t, client, userID, withStreet("Rua Original"))

	resp, err := client.PATCH(fmt.Sprintf("/api/v1/address/%d", id), map[string]interface{}{
		"complement": "Apto 42",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var address struct {
		Street     string `json:"street"`
		Complement string `json:"complement"`
		City       string `json:"city"`
	}
	testutil.DecodeJSON(t, resp, &address)
	assert.Equal(t, "Rua Original", address.Street)
	assert.Equal(t, "Apto 42", address.Complement)
	assert.Equal(t, "Sao Paulo", address.City)
}

func TestDeleteAddress_NoReElection(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)
	userID := newAddressOwner(t, client)

	def := createTestAddress(t, client, userID, asDefault())
	createTestAddress(t, client, userID, withStreet("Rua Restante"))

	resp, err := client.DELETE(fmt.Sprintf("/api/v1/address/%d", def))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting the default leaves the user with none
	resp, err = client.WithoutValidation().GET(fmt.Sprintf("/api/v1/address/user/%d/default", userID))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListAddresses_UnknownUser(t *testing.T) {
	client := newTestClient(t)
	client.LoginAsAdmin(t)

	resp, err := client.WithoutValidation().GET("/api/v1/address/user/999999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
