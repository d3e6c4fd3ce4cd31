//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trajefino/api/internal/testutil"
)

var nameCounter atomic.Int64

// uniqueName returns a name unique within the test run, so tests can
// create users and products without colliding on unique columns.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nameCounter.Add(1))
}

// createTestUser creates a user via the admin API and returns its id.
func createTestUser(t *testing.T, client *testutil.Client, userName string, opts ...userOption) int64 {
	t.Helper()

	payload := map[string]interface{}{
		"userName": userName,
		"fullName": "Test " + userName,
		"password": "s3cret123",
	}
	for _, opt := range opts {
		opt(payload)
	}

	resp, err := client.POST("/api/v1/user", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var user struct {
		ID int64 `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &user)
	return user.ID
}

type userOption func(map[string]interface{})

func withRole(role string) userOption {
	return func(m map[string]interface{}) {
		m["role"] = role
	}
}

// createTestAddress creates an address for a user and returns its id.
func createTestAddress(t *testing.T, client *testutil.Client, userID int64, opts ...addressOption) int64 {
	t.Helper()

	payload := map[string]interface{}{
		"street":  "Rua das Flores",
		"number":  "100",
		"city":    "Sao Paulo",
		"state":   "SP",
		"zipCode": "01310-100",
		"userId":  userID,
	}
	for _, opt := range opts {
		opt(payload)
	}

	resp, err := client.POST("/api/v1/address", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var address struct {
		ID int64 `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &address)
	return address.ID
}

type addressOption func(map[string]interface{})

func asDefault() addressOption {
	return func(m map[string]interface{}) {
		m["isDefault"] = true
	}
}

func withStreet(street string) addressOption {
	return func(m map[string]interface{}) {
		m["street"] = street
	}
}

// createTestProduct creates a product and returns its id.
func createTestProduct(t *testing.T, client *testutil.Client, name string, opts ...productOption) int64 {
	t.Helper()

	payload := map[string]interface{}{
		"name":  name,
		"price": 29.90,
	}
	for _, opt := range opts {
		opt(payload)
	}

	resp, err := client.POST("/api/v1/product", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var product struct {
		ID int64 `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &product)
	return product.ID
}

type productOption func(map[string]interface{})

func withPrice(price float64) productOption {
	return func(m map[string]interface{}) {
		m["price"] = price
	}
}

func withStock(stock int) productOption {
	return func(m map[string]interface{}) {
		m["stock"] = stock
	}
}

func withCategory(category string) productOption {
	return func(m map[string]interface{}) {
		m["category"] = category
	}
}

func withBarcode(barcode string) productOption {
	return func(m map[string]interface{}) {
		m["barcode"] = barcode
	}
}

// deleteUser removes a user. Does not fail if already deleted.
func deleteUser(t *testing.T, client *testutil.Client, id int64) {
	t.Helper()
	resp, err := client.DELETE(fmt.Sprintf("/api/v1/user/%d", id))
	if err != nil {
		t.Logf("cleanup warning (user %d): %v", id, err)
		return
	}
	resp.Body.Close()
}

// deleteProduct removes a product. Does not fail if already deleted.
func deleteProduct(t *testing.T, client *testutil.Client, id int64) {
	t.Helper()
	resp, err := client.DELETE(fmt.Sprintf("/api/v1/product/%d", id))
	if err != nil {
		t.Logf("cleanup warning (product %d): %v", id, err)
		return
	}
	resp.Body.Close()
}
