package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"roadwatch/api"
	"roadwatch/archive"
	"roadwatch/config"
	"roadwatch/events"
	"roadwatch/intelcache"
	"roadwatch/llm"
	"roadwatch/observability"
	"roadwatch/orchestrator"
	"roadwatch/profiles"
	"roadwatch/reports"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	ctx := context.Background()
	clock := clockwork.NewRealClock()

	cohereKey := os.Getenv("COHERE_API_KEY")
	if cohereKey == "" {
		log.Fatal("COHERE_API_KEY is required")
	}
	cohereClient, err := llm.NewCohereClient(cohereKey, os.Getenv("COHERE_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize Cohere client: %v", err)
	}

	adapter := reports.NewAdapter(reports.NewIndexClient(os.Getenv("EVENT_INDEX_URL")))
	if strings.EqualFold(config.GetEnvOrDefault("ENRICH_REPORTS", "false"), "true") {
		adapter = adapter.WithEnrichment()
	}

	cache := intelcache.New(initializeStore(), clock)
	metrics := observability.NewDefault()

	service := orchestrator.New(adapter, cohereClient, cohereClient, cache, initializeProfiles(), metrics, clock)

	if producer := initializeProducer(); producer != nil {
		defer producer.Close()
		service = service.WithPublisher(producer)
	}
	if archiver := initializeArchiver(ctx); archiver != nil {
		service = service.WithArchiver(archiver)
	}
	startRefreshConsumer(ctx, service)

	addr := ":" + config.GetEnvOrDefault("PORT", "8080")
	r := api.NewRouter(api.NewIntelController(service))
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/intel/area")
	log.Println("  POST /api/intel/route")
	log.Println("  GET  /metrics")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeStore returns a Redis-backed cache store when REDIS_ADDR is set,
// falling back to the in-memory store.
func initializeStore() intelcache.Store {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		log.Println("Redis not configured; using in-memory cache")
		return intelcache.NewMemoryStore()
	}

	store, err := intelcache.NewRedisStore(intelcache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})
	if err != nil {
		log.Printf("Warning: failed to connect to Redis: %v (using in-memory cache)", err)
		return intelcache.NewMemoryStore()
	}
	log.Printf("Cache backed by Redis at %s", addr)
	return store
}

// initializeProfiles loads the static profile file if configured.
func initializeProfiles() profiles.Source {
	path := strings.TrimSpace(os.Getenv("PROFILES_FILE"))
	if path == "" {
		log.Println("No static profiles configured; dynamic risk adjustment disabled")
		return profiles.NewStaticSource(nil, nil)
	}

	source, err := profiles.NewFileSource(path)
	if err != nil {
		log.Printf("Warning: failed to load profiles from %s: %v (dynamic risk adjustment disabled)", path, err)
		return profiles.NewStaticSource(nil, nil)
	}
	return source
}

// initializeProducer returns a Kafka update publisher if brokers are
// configured.
func initializeProducer() *events.Producer {
	brokers := kafkaBrokers()
	if len(brokers) == 0 {
		return nil
	}

	topic := config.GetEnvOrDefault("KAFKA_UPDATES_TOPIC", "roadwatch.intel.updated")
	producer, err := events.NewProducer(brokers, topic)
	if err != nil {
		log.Printf("Warning: failed to init Kafka producer: %v (updates disabled)", err)
		return nil
	}
	log.Printf("Publishing intel updates to Kafka topic %s", topic)
	return producer
}

// startRefreshConsumer begins consuming refresh requests if brokers are
// configured.
func startRefreshConsumer(ctx context.Context, service *orchestrator.Service) {
	brokers := kafkaBrokers()
	if len(brokers) == 0 {
		return
	}

	consumer, err := events.NewConsumer(events.ConsumerConfig{
		Brokers: brokers,
		Topic:   config.GetEnvOrDefault("KAFKA_REFRESH_TOPIC", "roadwatch.intel.refresh"),
		GroupID: config.GetEnvOrDefault("KAFKA_GROUP_ID", "roadwatch"),
		Handler: events.NewRefreshHandler(service),
	})
	if err != nil {
		log.Printf("Warning: failed to init Kafka consumer: %v (refresh requests disabled)", err)
		return
	}
	if err := consumer.Start(ctx); err != nil {
		log.Printf("Warning: Kafka consumer failed to start: %v", err)
	}
}

func kafkaBrokers() []string {
	raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

// initializeArchiver returns an S3 payload archiver if S3_BUCKET is set.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX,
// S3_USE_PATH_STYLE=true
func initializeArchiver(ctx context.Context) *archive.Archiver {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil
	}

	cfg := archive.S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}
	s3c, err := archive.NewS3(ctx, cfg)
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archiving disabled)", err)
		return nil
	}

	log.Printf("Archiving payloads to S3 bucket %q", bucket)
	return archive.NewArchiver(s3c, bucket, strings.TrimSpace(os.Getenv("S3_PREFIX")))
}
