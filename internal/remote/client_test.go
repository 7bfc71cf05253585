package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkulima/soko/internal/models"
)

func TestClient_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Listing{
			{ID: 1, Name: "Maize", Category: "Grain", Type: "cash", Price: 500, Location: "Nakuru"},
			{ID: 2, Name: "Goat", Category: "Livestock", Type: "barter", BarterDesc: "Want maize", Location: "Eldoret"},
		})
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)
	listings, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "Maize", listings[0].Name)
	assert.True(t, listings[0].IsCash())
	assert.False(t, listings[1].IsCash())
}

func TestClient_CreateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft models.ListingDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Maize", draft.Name)
		assert.Equal(t, 500.0, draft.Price)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Product listed successfully", "id": 42})
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)
	id, err := c.CreateProduct(context.Background(), models.ListingDraft{
		Name: "Maize", Category: "Grain", Type: "cash", Price: 500, Location: "Nakuru", Seller: "Wanjiku",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestClient_CreateOfferSendsEmptyEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/offers", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Wanjiku", body["buyerName"])
		// buyerEmail is part of the contract even when no email is known.
		email, present := body["buyerEmail"]
		assert.True(t, present)
		assert.Equal(t, "", email)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "Offer sent"})
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)
	_, err := c.CreateOffer(context.Background(), models.OfferDraft{
		ProductID: 1, BuyerName: "Wanjiku", BuyerPhone: "0712345678", Message: "Interested",
	})
	require.NoError(t, err)
}

func TestClient_ServerFailureMessageSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "listing no longer available"})
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)
	_, err := c.CreateOffer(context.Background(), models.OfferDraft{ProductID: 1, BuyerName: "A", BuyerPhone: "0712"})
	require.Error(t, err)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureServer, f.Kind)
	assert.Equal(t, http.StatusInternalServerError, f.StatusCode)
	assert.Equal(t, "listing no longer available", f.Message)
	assert.Equal(t, "listing no longer available", UserMessage(err))
}

func TestClient_ServerFailureWithoutBodyUsesGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)
	err := c.DeleteProduct(context.Background(), 7)
	require.Error(t, err)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureServer, f.Kind)
	assert.Equal(t, genericServerMessage, f.Message)
}

func TestClient_NetworkFailure(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClientForURL(srv.URL, 500*time.Millisecond)
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, FailureNetwork, f.Kind)
	assert.Equal(t, genericNetworkMessage, f.Message)
}

func TestClient_LoginAndSetOfferStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Invalid phone or password"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "Login successful",
				"user":    models.User{ID: 3, Fullname: "Wanjiku Kamau", Phone: "0712345678", Role: "farmer"},
			})
		case r.URL.Path == "/api/admin/offers/9" && r.Method == http.MethodPut:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "accepted", body["status"])
			json.NewEncoder(w).Encode(map[string]string{"message": "Offer status updated successfully"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClientForURL(srv.URL, 2*time.Second)

	user, err := c.Login(context.Background(), "0712345678", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Wanjiku Kamau", user.Fullname)
	assert.False(t, user.IsAdmin())

	_, err = c.Login(context.Background(), "0712345678", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid phone or password", UserMessage(err))

	require.NoError(t, c.SetOfferStatus(context.Background(), 9, models.OfferStatusAccepted))
}
