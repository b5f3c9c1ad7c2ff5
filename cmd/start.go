/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docchat-be/config"
	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/handler"
	"github.com/tieubaoca/docchat-be/repository"
	"github.com/tieubaoca/docchat-be/service"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document chat server",
	Long:  `Starts a server that handles document ingestion and chat over ingested documents`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}

		openaiService := service.NewOpenAIService(
			cfg.AIEndpoint, cfg.OpenAIAPIKey,
			cfg.Model, cfg.EmbeddingModel, cfg.SummaryModel,
		)
		aiService, err := selectAIService(cfg, openaiService)
		if err != nil {
			log.Fatalf("Failed to initialize AI service: %v", err)
		}

		ingestService := service.NewIngestService(
			cfg.UploadDir,
			cfg.MaxUploadBytes(),
			cfg.SummaryTimeout(),
			weaviateDb,
			service.NewPartitionService(),
			openaiService,
			openaiService,
		)
		ragService := service.NewRAGService(weaviateDb, openaiService, aiService, cfg.TopK)

		// Chat history persistence is optional.
		var chatStore database.ChatStore
		if cfg.MongoURI != "" {
			mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
			if err != nil {
				log.Fatalf("Failed to connect to MongoDB: %v", err)
			}
			chatStore = repository.NewChatRepo(mongoClient.Database("docchat"))
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		uploadHandler := handler.NewUploadHandler(ingestService)
		chatHandler := handler.NewChatHandler(ragService, chatStore)
		searchHandler := handler.NewSearchHandler(ragService)
		documentHandler := handler.NewDocumentHandler(cfg.UploadDir, ingestService)
		wsService := service.NewWebSocketService(ragService, chatStore)

		// Setup routes
		mux := http.NewServeMux()
		mux.Handle("/api/v1/chat", chatHandler.HandleChat())
		mux.Handle("/api/v1/chat/history", chatHandler.HandleChatHistory())
		mux.Handle("/api/v1/ws/chat", http.HandlerFunc(wsService.HandleChat))
		mux.Handle("/api/v1/documents", documentHandler.ListDocuments())
		mux.Handle("/api/v1/documents/search", searchHandler.HandleSearch())
		mux.Handle("/api/v1/pdf", documentHandler.ServeDocument())
		mux.Handle("/admin/api/v1/upload", uploadHandler.UploadDocumentHandler())
		mux.Handle("/health", wsService.Health())

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, corsHandler.Middleware(mux)); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func selectAIService(cfg *config.Config, openaiService *service.OpenAIService) (service.AIService, error) {
	if cfg.AIProvider == "gemini" {
		return service.NewGeminiService(strings.Split(cfg.GeminiAPIKey, ","), cfg.Model)
	}
	return openaiService, nil
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
