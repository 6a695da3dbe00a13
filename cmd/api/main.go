package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/sustaina-market/storefront/internal/aws"
	"github.com/sustaina-market/storefront/internal/cart"
	"github.com/sustaina-market/storefront/internal/catalog"
	"github.com/sustaina-market/storefront/internal/handlers"
)

func setupRouter(cfg handlers.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.Register(r, cfg)

	return r
}

// mirrorFactory picks the durable cart mirror: Redis when REDIS_ADDR is
// set (multi-instance deployments), a local JSON slot otherwise.
func mirrorFactory() cart.MirrorFactory {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return func(cartID string) cart.Mirror {
			return cart.NewRedisMirror(client, cartID)
		}
	}

	dir := os.Getenv("CART_DATA_DIR")
	if dir == "" {
		dir = "/tmp/sustaina-carts"
	}
	return func(cartID string) cart.Mirror {
		return cart.NewFileMirror(dir, cartID)
	}
}

func pricingFromEnv() cart.Pricing {
	p := cart.DefaultPricing()
	if raw := os.Getenv("SHIPPING_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.ShippingThreshold = v
		}
	}
	if raw := os.Getenv("FLAT_SHIPPING_FEE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.FlatShippingFee = v
		}
	}
	return p
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.Config{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		QueueURL:         os.Getenv("FULFILLMENT_QUEUE_URL"),
		TTLWindow:        48 * time.Hour,
		Catalog:          catalog.NewStore(),
		Carts:            cart.NewManager(mirrorFactory()),
		Pricing:          pricingFromEnv(),
	}

	r := setupRouter(cfg)

	// RUN_LOCAL=true runs a plain HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
