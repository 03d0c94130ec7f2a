package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySaleApproved(t *testing.T) {
	var gotPath, gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"TX1","state":"approved","amount":{"total":"25.00","currency":"USD"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-id", "client-secret")
	conf, err := c.VerifySale(context.Background(), "TX1")
	require.NoError(t, err)
	require.Equal(t, "/v1/payments/sale/TX1", gotPath)
	require.Equal(t, "client-id", gotUser)
	require.Equal(t, "client-secret", gotPass)
	require.Equal(t, "TX1", conf.TransactionID)
	require.Equal(t, int64(2500), conf.ApprovedAmount)
	require.True(t, conf.Approved())
}

func TestVerifySalePendingIsNotApproved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"TX2","state":"pending","amount":{"total":"10.00","currency":"USD"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	conf, err := c.VerifySale(context.Background(), "TX2")
	require.NoError(t, err)
	require.False(t, conf.Approved())
}

func TestVerifySaleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	_, err := c.VerifySale(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrSaleNotFound)
}

func TestVerifySaleEmptyID(t *testing.T) {
	c := NewClient("http://unreachable.invalid", "id", "secret")
	_, err := c.VerifySale(context.Background(), "")
	require.ErrorIs(t, err, ErrSaleNotFound)
}

func TestVerifySaleProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret")
	_, err := c.VerifySale(context.Background(), "TX3")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"25.00", 2500},
		{"7", 700},
		{"0.5", 50},
		{"0.05", 5},
		{"1234.56", 123456},
		{".99", 99},
		{"-3.25", -325},
		{"-0.50", -50},
	}
	for _, tc := range cases {
		got, err := parseCents(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"not-a-number", "25.999", "1.2.3"} {
		_, err := parseCents(in)
		require.Error(t, err, in)
	}
}
