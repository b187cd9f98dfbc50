//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8090")

type view struct {
	Items []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"items"`
	Query      string `json:"query"`
	TotalCount int    `json:"total_count"`
}

func TestSystem_E2E_ProductLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var before view
	doJSON(t, http.MethodPost, baseURL+"/view/refresh", nil, &before, 200)

	suffix := fmt.Sprintf("%d-%d", time.Now().Unix(), rand.Intn(100000))
	title := "E2E Lamp " + suffix

	var created struct {
		ID int64 `json:"id"`
	}
	doJSON(t, http.MethodPost, baseURL+"/products", map[string]any{
		"title":              title,
		"vendor":             "E2E",
		"price":              "12.34",
		"sku":                "E2E-" + suffix,
		"inventory_quantity": "3",
		"alt":                title,
		"src":                "https://cdn.example.com/e2e.png",
	}, &created, 201)
	if created.ID == 0 {
		t.Fatalf("product id missing")
	}

	var filtered view
	doJSON(t, http.MethodPut, baseURL+"/view/criteria", map[string]any{
		"query":     suffix,
		"min_price": "12",
		"max_price": "13",
	}, &filtered, 200)
	if len(filtered.Items) != 1 || filtered.Items[0].ID != created.ID {
		t.Fatalf("filtered items=%+v want only %d", filtered.Items, created.ID)
	}

	if os.Getenv("E2E_RESTART_GATEWAY") == "1" {
		restartContainer(t, ctx, "devgateway")
		waitReady(t, ctx, baseURL+"/readyz")
		doJSON(t, http.MethodPost, baseURL+"/view/refresh", nil, &filtered, 200)
		if len(filtered.Items) != 1 {
			t.Fatalf("product lost across gateway restart")
		}
	}

	var pending struct {
		ID string `json:"confirmation_id"`
	}
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/products/%d/delete-requests", baseURL, created.ID), nil, &pending, 201)
	if pending.ID == "" {
		t.Fatalf("confirmation id missing")
	}

	var after view
	doJSON(t, http.MethodPost, baseURL+"/delete-requests/"+pending.ID+"/confirm", nil, &after, 200)
	if len(after.Items) != 0 {
		t.Fatalf("deleted product still listed: %+v", after.Items)
	}

	doJSON(t, http.MethodPut, baseURL+"/view/criteria", map[string]any{"query": ""}, nil, 200)
}

func TestSystem_E2E_Orders(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var created struct {
		ID                   int64  `json:"id"`
		CurrentSubtotalPrice string `json:"current_subtotal_price"`
	}
	doJSON(t, http.MethodPost, baseURL+"/orders", map[string]any{
		"email": fmt.Sprintf("buyer_%d@example.com", rand.Intn(100000)),
		"tags":  "e2e",
		"line_items": []map[string]any{
			{"title": "Mug", "price": "5.00", "quantity": 3, "tax_lines": []map[string]any{}},
		},
	}, &created, 201)
	if created.ID == 0 {
		t.Fatalf("order id missing")
	}

	var book struct {
		Orders []struct {
			ID int64 `json:"id"`
		} `json:"orders"`
		Total string `json:"total"`
	}
	doJSON(t, http.MethodGet, baseURL+"/orders", nil, &book, 200)

	found := false
	for _, o := range book.Orders {
		found = found || o.ID == created.ID
	}
	if !found {
		t.Fatalf("order %d not in book", created.ID)
	}

	doJSON(t, http.MethodDelete, fmt.Sprintf("%s/orders/%d", baseURL, created.ID), nil, nil, 204)
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
