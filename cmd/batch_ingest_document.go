/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/docchat-be/config"
)

// batchIngestDocumentCmd represents the batchIngestDocument command
var batchIngestDocumentCmd = &cobra.Command{
	Use:   "batch-ingest-document",
	Short: "Ingest every PDF in a directory",
	Long: `Walks a directory and ingests each PDF found. Documents already in the
index (same content hash) are skipped; a failure on one document does
not stop the batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("directory")
		reinit, _ := cmd.Flags().GetBool("reinit")
		if directory == "" {
			log.Fatal("--directory is required")
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

		files, err := filepath.Glob(filepath.Join(directory, "*"))
		if err != nil {
			log.Fatalf("Failed to read directory: %v", err)
		}
		for _, filePath := range files {
			if !strings.EqualFold(filepath.Ext(filePath), ".pdf") {
				continue
			}
			result, err := ingestFile(ingestService, filePath)
			if err != nil {
				log.Printf("Failed to ingest document %s: %v", filePath, err)
				continue
			}
			log.Printf("Ingested %s: status=%s chunks=%d", result.FileName, result.Status, result.Chunks)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchIngestDocumentCmd)

	batchIngestDocumentCmd.Flags().String("directory", "", "Path to the directory of PDFs to ingest")
	batchIngestDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the vector index first")
}
