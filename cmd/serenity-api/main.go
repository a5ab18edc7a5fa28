package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/serenitylabs/serenity-agent/internal/adapters/http"
	"github.com/serenitylabs/serenity-agent/internal/adapters/llm"
	firestorestore "github.com/serenitylabs/serenity-agent/internal/adapters/storage/firestore"
	memstore "github.com/serenitylabs/serenity-agent/internal/adapters/storage/memory"
	"github.com/serenitylabs/serenity-agent/internal/app/activity"
	"github.com/serenitylabs/serenity-agent/internal/app/chat"
	"github.com/serenitylabs/serenity-agent/internal/app/exercise"
	"github.com/serenitylabs/serenity-agent/internal/config"
	"github.com/serenitylabs/serenity-agent/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var (
		llmClient domain.InferenceClient
		err       error
	)

	switch cfg.LLMBackend {
	case "vertex":
		log.Println("[LLM] Using Vertex AI client")
		llmClient, err = llm.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName, cfg.InferenceTimeout)
		if err != nil {
			log.Fatalf("error initializing Vertex client: %v", err)
		}
	case "huggingface":
		log.Printf("[LLM] Using Hugging Face client (model=%s)", cfg.ModelName)
		llmClient, err = llm.NewHFClient(cfg.HFBaseURL, cfg.HFAPIKey, cfg.ModelName, cfg.InferenceTimeout)
		if err != nil {
			log.Fatalf("error initializing Hugging Face client: %v", err)
		}
	default:
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	}

	var store domain.ProfileStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewProfileStore()
	}

	ledger := activity.NewLedger(store)
	exercises := exercise.NewManager()
	svc := chat.NewService(llmClient, store, ledger, exercises)

	handler := httpadapter.NewServer(svc, exercises)

	port := ":" + cfg.Port
	log.Println("Serenity API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
