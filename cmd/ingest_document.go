/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docchat-be/config"
	"github.com/tieubaoca/docchat-be/database"
	"github.com/tieubaoca/docchat-be/service"
	"github.com/tieubaoca/docchat-be/types"
)

// ingestDocumentCmd represents the ingestDocument command
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest a single PDF into the vector index",
	Long: `Parses a PDF into title-bounded multimodal chunks and stores them in
the vector index. A document whose content hash is already indexed is
skipped and reported as a duplicate.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ingestService, weaviateDb, err := buildIngestService(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize ingestion: %v", err)
		}
		if reinit {
			if err := weaviateDb.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize Weaviate database: %v", err)
			}
		}

		result, err := ingestFile(ingestService, filePath)
		if err != nil {
			log.Fatalf("Failed to ingest document %s: %v", filePath, err)
		}
		log.Printf("Ingested %s: status=%s chunks=%d", result.FileName, result.Status, result.Chunks)
	},
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)

	ingestDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF to ingest")
	ingestDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the vector index first")
}

func buildIngestService(cfg *config.Config) (*service.IngestService, *database.WeaviateStore, error) {
	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		return nil, nil, err
	}
	openaiService := service.NewOpenAIService(
		cfg.AIEndpoint, cfg.OpenAIAPIKey,
		cfg.Model, cfg.EmbeddingModel, cfg.SummaryModel,
	)
	ingestService := service.NewIngestService(
		cfg.UploadDir,
		cfg.MaxUploadBytes(),
		cfg.SummaryTimeout(),
		weaviateDb,
		service.NewPartitionService(),
		openaiService,
		openaiService,
	)
	return ingestService, weaviateDb, nil
}

func ingestFile(ingestService *service.IngestService, filePath string) (*types.IngestResult, error) {
	statusChan := make(chan types.ProcessingDocumentStatus)
	go func() {
		for status := range statusChan {
			log.Printf("%s (%.0f%%)", status.Message, status.Progress*100)
		}
	}()

	result, err := ingestService.IngestFile(context.Background(), filePath, statusChan)
	close(statusChan)
	return result, err
}
