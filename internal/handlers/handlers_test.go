package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	sqssdk "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"

	"github.com/sustaina-market/storefront/internal/cart"
	"github.com/sustaina-market/storefront/internal/catalog"
)

// --- mocks ---

type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{
		"orders":      {},
		"idempotency": {},
	}}
}

func fakeKey(attrs map[string]types.AttributeValue) string {
	for _, name := range []string{"order_id", "idempotency_key"} {
		if v, ok := attrs[name]; ok {
			return v.(*types.AttributeValueMemberS).Value
		}
	}
	return ""
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[*in.TableName][fakeKey(in.Item)] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.tables[*in.TableName][fakeKey(in.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.tables[*in.TableName][fakeKey(in.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	for expr, attr := range map[string]string{":new": "status", ":done": "status", ":failed": "status"} {
		if v, ok := in.ExpressionAttributeValues[expr]; ok {
			item[attr] = v
		}
	}
	return &dyn.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, in *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range in.TransactItems {
		if p := it.Put; p != nil && p.ConditionExpression != nil {
			if _, exists := f.tables[*p.TableName][fakeKey(p.Item)]; exists {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}
	for _, it := range in.TransactItems {
		if p := it.Put; p != nil {
			f.tables[*p.TableName][fakeKey(p.Item)] = p.Item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, in *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]map[string]types.AttributeValue, 0)
	for _, item := range f.tables[*in.TableName] {
		items = append(items, item)
	}
	return &dyn.ScanOutput{Items: items}, nil
}

type fakeSQS struct {
	mu   sync.Mutex
	sent int
	fail bool
}

func (f *fakeSQS) SendMessage(ctx context.Context, in *sqssdk.SendMessageInput, optFns ...func(*sqssdk.Options)) (*sqssdk.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("queue down")
	}
	f.sent++
	return &sqssdk.SendMessageOutput{}, nil
}

func newTestRouter(dynamo *fakeDynamo, queue *fakeSQS) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, Config{
		DynamoDBClient:   dynamo,
		SQSClient:        queue,
		IdempotencyTable: "idempotency",
		OrdersTable:      "orders",
		QueueURL:         "https://sqs.example/fulfillment",
		TTLWindow:        48 * time.Hour,
		Catalog:          catalog.NewStore(),
		Carts:            cart.NewManager(nil),
		Pricing:          cart.DefaultPricing(),
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestAddToCartMergesAndPrices(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})
	headers := map[string]string{"X-Cart-Id": "shopper-1"}

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "fresh-yam"}, headers)
		if w.Code != http.StatusOK {
			t.Fatalf("add returned %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodGet, "/cart", nil, headers)
	var resp struct {
		Items  cart.Snapshot `json:"items"`
		Count  int           `json:"count"`
		Totals cart.Totals   `json:"totals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 1 || resp.Count != 3 {
		t.Fatalf("expected one merged line of quantity 3: %+v", resp)
	}
	if resp.Totals.Subtotal != 45.00 || resp.Totals.ShippingFee != 25.00 {
		t.Fatalf("unexpected totals: %+v", resp.Totals)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})
	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "ghost"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAddSignalsCartOpen(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})
	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "shito-sauce"}, nil)

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if open, _ := resp["open_cart"].(bool); !open {
		t.Fatalf("add response missing open_cart signal: %v", resp)
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	dynamo := newFakeDynamo()
	queue := &fakeSQS{}
	r := newTestRouter(dynamo, queue)
	headers := map[string]string{"X-Cart-Id": "shopper-1", "Idempotency-Key": "key-1"}

	// 3 x brown rice = 240, free delivery
	for i := 0; i < 3; i++ {
		doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "brown-rice"}, headers)
	}

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"first_name":     "Ama",
		"last_name":      "Mensah",
		"momo_number":    "0241234567",
		"address":        "GA-123-4567",
		"region":         "Greater Accra",
		"expected_total": 240.00,
	}, headers)

	if w.Code != http.StatusCreated {
		t.Fatalf("checkout returned %d: %s", w.Code, w.Body.String())
	}
	// no Location header: order detail is admin-gated, shoppers get the body
	if loc := w.Header().Get("Location"); loc != "" {
		t.Fatalf("unexpected Location header %q", loc)
	}
	if queue.sent != 1 {
		t.Fatalf("expected 1 fulfillment message, got %d", queue.sent)
	}
	if len(dynamo.tables["orders"]) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(dynamo.tables["orders"]))
	}

	// cart cleared only after confirmed success
	cw := doJSON(t, r, http.MethodGet, "/cart", nil, headers)
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(cw.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 {
		t.Fatalf("cart not cleared: count %d", resp.Count)
	}
}

func TestSequentialCheckoutsSameCart(t *testing.T) {
	dynamo := newFakeDynamo()
	queue := &fakeSQS{}
	r := newTestRouter(dynamo, queue)

	form := gin.H{
		"first_name":     "Ama",
		"last_name":      "Mensah",
		"momo_number":    "0241234567",
		"address":        "GA-123-4567",
		"region":         "Greater Accra",
		"expected_total": 40.00, // 15 + 25 shipping
	}

	// a returning shopper checks out twice from the same cart id
	for i, key := range []string{"key-a", "key-b"} {
		headers := map[string]string{"X-Cart-Id": "returning-shopper", "Idempotency-Key": key}
		doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "fresh-yam"}, headers)

		w := doJSON(t, r, http.MethodPost, "/checkout", form, headers)
		if w.Code != http.StatusCreated {
			t.Fatalf("checkout %d returned %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	if len(dynamo.tables["orders"]) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(dynamo.tables["orders"]))
	}
	if queue.sent != 2 {
		t.Fatalf("expected 2 fulfillment messages, got %d", queue.sent)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})
	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutEmptyCartBlocked(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})
	headers := map[string]string{"X-Cart-Id": "empty-shopper", "Idempotency-Key": "key-1"}

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"first_name":     "Ama",
		"last_name":      "Mensah",
		"momo_number":    "0241234567",
		"address":        "GA-123-4567",
		"region":         "Greater Accra",
		"expected_total": 25.00,
	}, headers)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckoutFailurePreservesCart(t *testing.T) {
	dynamo := newFakeDynamo()
	queue := &fakeSQS{fail: true}
	r := newTestRouter(dynamo, queue)
	headers := map[string]string{"X-Cart-Id": "shopper-2", "Idempotency-Key": "key-2"}

	doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "fresh-yam"}, headers)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"first_name":     "Ama",
		"last_name":      "Mensah",
		"momo_number":    "0241234567",
		"address":        "GA-123-4567",
		"region":         "Greater Accra",
		"expected_total": 40.00, // 15 + 25 shipping
	}, headers)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	cw := doJSON(t, r, http.MethodGet, "/cart", nil, headers)
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(cw.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Fatalf("cart changed on failed submission: count %d", resp.Count)
	}
}

func TestAdminRoutesGated(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})

	w := doJSON(t, r, http.MethodGet, "/admin/orders", nil, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("anonymous admin access: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/admin/orders", nil, map[string]string{
		"X-User-Email": "ama@example.com",
		"X-User-Role":  "user",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin access: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/admin/orders", nil, map[string]string{
		"X-User-Email": "admin@sustaina.com",
		"X-User-Role":  "admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin blocked: %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	dynamo := newFakeDynamo()
	queue := &fakeSQS{}
	r := newTestRouter(dynamo, queue)
	shopper := map[string]string{"X-Cart-Id": "shopper-3", "Idempotency-Key": "key-3"}

	doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": "fresh-yam"}, shopper)
	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{
		"first_name":     "Ama",
		"last_name":      "Mensah",
		"momo_number":    "0241234567",
		"address":        "GA-123-4567",
		"region":         "Greater Accra",
		"expected_total": 40.00,
	}, shopper)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout failed: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	admin := map[string]string{"X-User-Email": "admin@sustaina.com", "X-User-Role": "admin"}
	w = doJSON(t, r, http.MethodPut, "/admin/orders/"+created.OrderID+"/status", gin.H{"status": "Processing"}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("status update failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/admin/orders/"+created.OrderID+"/status", gin.H{"status": "Shipped"}, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status accepted: %d", w.Code)
	}
}

func TestSessionPrefill(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})

	w := doJSON(t, r, http.MethodGet, "/session", nil, map[string]string{
		"X-User-Name":  "Ama Mensah",
		"X-User-Email": "ama@example.com",
	})
	var s Session
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if !s.IsAuthenticated || s.DisplayName != "Ama Mensah" {
		t.Fatalf("unexpected session: %+v", s)
	}

	w = doJSON(t, r, http.MethodGet, "/session", nil, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.IsAuthenticated {
		t.Fatal("anonymous request reported authenticated")
	}
}

func TestProductRoutes(t *testing.T) {
	r := newTestRouter(newFakeDynamo(), &fakeSQS{})

	w := doJSON(t, r, http.MethodGet, "/products?category=Vegetables", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list products: %d", w.Code)
	}
	var resp struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, p := range resp.Products {
		if p.Category != catalog.CategoryVegetables {
			t.Fatalf("filter leaked %q", p.Category)
		}
	}

	if w := doJSON(t, r, http.MethodGet, "/products/ghost", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing product: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/deals", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("deals: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/recipes", nil, nil); w.Code != http.StatusOK {
		t.Fatalf("recipes: %d", w.Code)
	}
}
