package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"holdings": [
		{"stock": "HDFC Bank", "symbol": "HDFCBANK.NS", "sector": "Financials", "qty": 10,
		 "investment": 1000, "presentValue": 1200, "gainLoss": 200, "peRatio": 18.2},
		{"stock": "Tanla", "symbol": "TANLA.NS", "sector": null, "qty": 5,
		 "investment": 500, "presentValue": 450, "gainLoss": -50, "peRatio": "N/A"}
	]}`)

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	list, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].Stock != "HDFC Bank" || list[0].PresentValue != 1200 || list[0].Qty != 10 {
		t.Errorf("list[0] = %+v", list[0])
	}
	if v, ok := list[0].PERatio.Float(); !ok || v != 18.2 {
		t.Errorf("list[0].PERatio = %v", list[0].PERatio.Value)
	}
	if list[1].GainLoss != -50 || list[1].PERatio.String() != "-" {
		t.Errorf("list[1] = %+v", list[1])
	}
}

func TestClient_FetchEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"holdings": null}`, `{"holdings": []}`} {
		srv := serve(t, http.StatusOK, body)
		c, err := NewClient(srv.URL)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		list, err := c.Fetch(context.Background())
		if err != nil {
			t.Errorf("Fetch(%s) error = %v", body, err)
			continue
		}
		if list == nil || len(list) != 0 {
			t.Errorf("Fetch(%s) = %v, want an empty list", body, list)
		}
	}
}

func TestClient_FetchErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := serve(t, http.StatusServiceUnavailable, `{}`)
		c, _ := NewClient(srv.URL)
		_, err := c.Fetch(context.Background())
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
			t.Fatalf("Fetch() error = %v, want a StatusError 503", err)
		}
		if got, want := err.Error(), "request failed: 503"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
	t.Run("not json", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `<html>`)
		c, _ := NewClient(srv.URL)
		if _, err := c.Fetch(context.Background()); err == nil {
			t.Errorf("Fetch() should fail on invalid JSON")
		}
	})
	t.Run("not a list", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"holdings": {"stock": "x"}}`)
		c, _ := NewClient(srv.URL)
		if _, err := c.Fetch(context.Background()); !errors.Is(err, ErrNotList) {
			t.Errorf("Fetch() error = %v, want ErrNotList", err)
		}
	})
	t.Run("bad holding", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{"holdings": [{"qty": "ten"}]}`)
		c, _ := NewClient(srv.URL)
		if _, err := c.Fetch(context.Background()); err == nil {
			t.Errorf("Fetch() should fail on a malformed holding")
		}
	})
	t.Run("canceled", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `{}`)
		c, _ := NewClient(srv.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := c.Fetch(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("Fetch() error = %v, want context.Canceled", err)
		}
	})
}

func TestClient_HoldingsPath(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"data": {"items": [{"stock": "Suzlon", "presentValue": 42}]}}`)
	c, err := NewClient(srv.URL, WithHoldingsPath("$.data.items"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	list, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(list) != 1 || list[0].Stock != "Suzlon" || list[0].PresentValue != 42 {
		t.Errorf("Fetch() = %+v", list)
	}

	if _, err := NewClient(srv.URL, WithHoldingsPath("$.holdings[")); err == nil {
		t.Errorf("NewClient() with an invalid path should fail")
	}
}
